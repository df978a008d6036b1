package ingest

import (
	"encoding/hex"
	"fmt"

	"github.com/deploymenttheory/go-uicc/internal/codec"
	"github.com/deploymenttheory/go-uicc/internal/types"
)

// typeNames maps spec §6's JSON type strings to the internal ItemType
// enum.
var typeNames = map[string]types.ItemType{
	"file_mf":              types.ItemMF,
	"file_adf":             types.ItemADF,
	"file_df":              types.ItemDF,
	"file_ef_transparent":  types.ItemEFTransparent,
	"file_ef_linear-fixed": types.ItemEFLinearFixed,
	"file_ef_cyclic":       types.ItemEFCyclic,
	"dato_ber-tlv":         types.ItemBerTlvDO,
	"hex":                  types.ItemHex,
	"ascii":                types.ItemAscii,
}

func parseItemType(s string) (types.ItemType, error) {
	t, ok := typeNames[s]
	if !ok {
		return types.ItemInvalid, fmt.Errorf("unknown type %q: %w", s, types.ErrBadParameters)
	}
	return t, nil
}

func parseLCS(s string) (types.LifeCycleStatus, error) {
	switch s {
	case "", "activated":
		return types.LCSOperationalActivated, nil
	case "deactivated":
		return types.LCSOperationalDeactivated, nil
	case "terminated":
		return types.LCSTerminated, nil
	default:
		return 0, fmt.Errorf("unknown lcs %q: %w", s, types.ErrBadParameters)
	}
}

func parseIDSIDName(spec FileSpec) (id uint16, sid uint8, name [types.NameMaxLen]byte, err error) {
	if spec.ID != "" {
		raw, decErr := hex.DecodeString(spec.ID)
		if decErr != nil || len(raw) != 2 {
			return 0, 0, name, fmt.Errorf("id %q must be 4 hex characters: %w", spec.ID, types.ErrBadParameters)
		}
		id = uint16(raw[0])<<8 | uint16(raw[1])
	}
	if spec.SID != "" {
		raw, decErr := hex.DecodeString(spec.SID)
		if decErr != nil || len(raw) != 1 {
			return 0, 0, name, fmt.Errorf("sid %q must be 2 hex characters: %w", spec.SID, types.ErrBadParameters)
		}
		sid = raw[0]
	}
	if len(spec.Name) > types.NameMaxLen {
		return 0, 0, name, fmt.Errorf("name %q exceeds %d characters: %w", spec.Name, types.NameMaxLen, types.ErrBadParameters)
	}
	copy(name[:], spec.Name)
	return id, sid, name, nil
}

func writeFileHeaderFields(buf []byte, itemStart uint32, id uint16, sid uint8, name [types.NameMaxLen]byte) error {
	return codec.EncodeFileHeader(buf[itemStart+types.ItemHeaderSize:], id, sid, name)
}

func writeAID(buf []byte, trailerStart uint32, aidHex string) error {
	raw, err := hex.DecodeString(aidHex)
	if err != nil || len(raw) != types.AIDSize {
		return fmt.Errorf("aid %q must be %d hex characters: %w", aidHex, types.AIDSize*2, types.ErrBadParameters)
	}
	var rid [types.RIDSize]byte
	var pix [types.PIXSize]byte
	copy(rid[:], raw[:types.RIDSize])
	copy(pix[:], raw[types.RIDSize:])
	return codec.EncodeAID(buf[trailerStart:], rid, pix)
}

func writeRecordSizeField(buf []byte, trailerStart uint32, size uint8) error {
	return codec.EncodeRecordSize(buf[trailerStart:], size)
}

// patchItemHeader fills in the item header reserved at the start of
// writeFile, now that the file's total size (everything written between
// itemStart and the cursor's current position) is known.
func patchItemHeader(c *cursor, itemStart, parentOffset uint32, isRoot bool, itemType types.ItemType, lcs types.LifeCycleStatus) error {
	offsetPrel := uint32(0)
	if !isRoot {
		offsetPrel = itemStart - parentOffset
	}
	hdr := types.ItemHeader{
		Size:       c.pos - itemStart,
		LCS:        lcs,
		Type:       itemType,
		OffsetPrel: offsetPrel,
	}
	return codec.EncodeItemHeader(c.buf[itemStart:], hdr)
}

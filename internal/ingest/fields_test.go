package ingest

import (
	"errors"
	"testing"

	"github.com/deploymenttheory/go-uicc/internal/types"
)

func TestParseItemType(t *testing.T) {
	cases := map[string]types.ItemType{
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
	for s, want := range cases {
		got, err := parseItemType(s)
		if err != nil {
			t.Errorf("parseItemType(%q): %v", s, err)
			continue
		}
		if got != want {
			t.Errorf("parseItemType(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParseItemTypeUnknown(t *testing.T) {
	if _, err := parseItemType("bogus"); !errors.Is(err, types.ErrBadParameters) {
		t.Errorf("expected ErrBadParameters, got %v", err)
	}
}

func TestParseLCS(t *testing.T) {
	cases := map[string]types.LifeCycleStatus{
		"":             types.LCSOperationalActivated,
		"activated":    types.LCSOperationalActivated,
		"deactivated":  types.LCSOperationalDeactivated,
		"terminated":   types.LCSTerminated,
	}
	for s, want := range cases {
		got, err := parseLCS(s)
		if err != nil {
			t.Errorf("parseLCS(%q): %v", s, err)
			continue
		}
		if got != want {
			t.Errorf("parseLCS(%q) = %v, want %v", s, got, want)
		}
	}
	if _, err := parseLCS("bogus"); !errors.Is(err, types.ErrBadParameters) {
		t.Errorf("expected ErrBadParameters for unknown lcs, got %v", err)
	}
}

func TestParseIDSIDName(t *testing.T) {
	id, sid, name, err := parseIDSIDName(FileSpec{ID: "3F00", SID: "07", Name: "MF"})
	if err != nil {
		t.Fatalf("parseIDSIDName: %v", err)
	}
	if id != 0x3F00 {
		t.Errorf("id = 0x%04x, want 0x3f00", id)
	}
	if sid != 0x07 {
		t.Errorf("sid = 0x%02x, want 0x07", sid)
	}
	wantName := "MF"
	if string(name[:len(wantName)]) != wantName {
		t.Errorf("name = %q, want %q", name, wantName)
	}
}

func TestParseIDSIDNameDefaults(t *testing.T) {
	id, sid, _, err := parseIDSIDName(FileSpec{})
	if err != nil {
		t.Fatalf("parseIDSIDName: %v", err)
	}
	if id != 0 || sid != 0 {
		t.Errorf("id/sid = %d/%d, want 0/0", id, sid)
	}
}

func TestParseIDSIDNameBadID(t *testing.T) {
	if _, _, _, err := parseIDSIDName(FileSpec{ID: "ZZ"}); !errors.Is(err, types.ErrBadParameters) {
		t.Errorf("expected ErrBadParameters, got %v", err)
	}
}

func TestParseIDSIDNameNameTooLong(t *testing.T) {
	_, _, _, err := parseIDSIDName(FileSpec{Name: "THIS NAME IS WAY TOO LONG"})
	if !errors.Is(err, types.ErrBadParameters) {
		t.Errorf("expected ErrBadParameters, got %v", err)
	}
}

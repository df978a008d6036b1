package va

import (
	"testing"

	"github.com/deploymenttheory/go-uicc/internal/codec"
	"github.com/deploymenttheory/go-uicc/internal/disk"
	"github.com/deploymenttheory/go-uicc/internal/types"
)

func buildItem(t *testing.T, itemType types.ItemType, offsetPrel uint32, id uint16, sid uint8, name string, trailer, data []byte) []byte {
	t.Helper()
	var nameArr [types.NameMaxLen]byte
	copy(nameArr[:], name)

	body := make([]byte, types.FileHeaderSize)
	if err := codec.EncodeFileHeader(body, id, sid, nameArr); err != nil {
		t.Fatalf("encode file header: %v", err)
	}
	body = append(body, trailer...)
	body = append(body, data...)

	hdrBuf := make([]byte, types.ItemHeaderSize)
	hdr := types.ItemHeader{
		Size:       uint32(types.ItemHeaderSize + len(body)),
		LCS:        types.LCSOperationalActivated,
		Type:       itemType,
		OffsetPrel: offsetPrel,
	}
	if err := codec.EncodeItemHeader(hdrBuf, hdr); err != nil {
		t.Fatalf("encode item header: %v", err)
	}
	return append(hdrBuf, body...)
}

// buildTestDisk assembles a forest of two trees: an MF (with a DF holding
// a transparent EF with SFI 0x01, and a linear-fixed EF directly under the
// MF) and a single ADF.
func buildTestDisk(t *testing.T) *disk.Disk {
	t.Helper()

	ef1 := buildItem(t, types.ItemEFTransparent, 30, 0x6F3A, 0x01, "EF1", nil, []byte{1, 2, 3})
	df := buildItem(t, types.ItemDF, 30, 0x7F10, 0x00, "DF.TEL", nil, ef1)

	recData := append([]byte{0xAA, 0xBB, 0xCC, 0xDD}, []byte{0x11, 0x22, 0x33, 0x44}...)
	efRec := buildItem(t, types.ItemEFLinearFixed, 93, 0x6F50, 0x02, "RECS", []byte{4}, recData)

	mfData := append(append([]byte{}, df...), efRec...)
	mf := buildItem(t, types.ItemMF, 0, 0x3F00, 0, "MF", nil, mfData)

	rid := [types.RIDSize]byte{0xA0, 0x00, 0x00, 0x00, 0x87}
	pix := [types.PIXSize]byte{0x10, 0x02, 0x25, 0x89, 0x01, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00}
	var aid []byte
	aid = append(aid, rid[:]...)
	aid = append(aid, pix[:]...)
	adf := buildItem(t, types.ItemADF, 0, 0x0000, 0, "USIM", aid, nil)

	d, err := disk.New([]*disk.Tree{{Buf: mf}, {Buf: adf}})
	if err != nil {
		t.Fatalf("disk.New: %v", err)
	}
	return d
}

func TestNewResetsToMF(t *testing.T) {
	d := buildTestDisk(t)
	s, err := New(d)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.CurFile == nil || s.CurFile.ID != 0x3F00 {
		t.Fatalf("expected MF selected after New, got %+v", s.CurFile)
	}
	if s.CurEF != nil {
		t.Error("expected CurEF nil right after reset")
	}
}

func TestSelectFileIDIntoDF(t *testing.T) {
	d := buildTestDisk(t)
	s, err := New(d)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.SelectFileID(0x7F10); err != nil {
		t.Fatalf("SelectFileID(DF): %v", err)
	}
	if s.CurDF == nil || s.CurDF.ID != 0x7F10 {
		t.Fatalf("CurDF = %+v, want fid 0x7f10", s.CurDF)
	}
	if s.CurEF != nil {
		t.Error("expected CurEF nil after selecting a DF")
	}
}

func TestSelectFileIDIntoEFSetsParentDF(t *testing.T) {
	d := buildTestDisk(t)
	s, err := New(d)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.SelectFileID(0x6F3A); err != nil {
		t.Fatalf("SelectFileID(EF): %v", err)
	}
	if s.CurEF == nil || s.CurEF.ID != 0x6F3A {
		t.Fatalf("CurEF = %+v, want fid 0x6f3a", s.CurEF)
	}
	if s.CurDF == nil || s.CurDF.ID != 0x7F10 {
		t.Fatalf("CurDF = %+v, want parent fid 0x7f10", s.CurDF)
	}
}

func TestSelectFileIDNotFoundLeavesStateUntouched(t *testing.T) {
	d := buildTestDisk(t)
	s, err := New(d)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before := *s.CurFile

	if err := s.SelectFileID(0x9999); err == nil {
		t.Fatal("expected an error for an unknown fid")
	}
	if s.CurFile == nil || *s.CurFile != before {
		t.Error("a failed selection must not mutate state")
	}
}

func TestSelectADF(t *testing.T) {
	d := buildTestDisk(t)
	s, err := New(d)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rid := [types.RIDSize]byte{0xA0, 0x00, 0x00, 0x00, 0x87}
	pix := []byte{0x10, 0x02, 0x25, 0x89}
	if err := s.SelectADF(rid, pix); err != nil {
		t.Fatalf("SelectADF: %v", err)
	}
	if s.CurAdf == nil || s.CurAdf.Header.Type != types.ItemADF {
		t.Fatalf("expected an ADF selected, got %+v", s.CurAdf)
	}
	if s.CurTree != d.Trees[1] {
		t.Error("expected the ADF tree to be selected")
	}
}

func TestSelectFileSIDRebindsCurDF(t *testing.T) {
	d := buildTestDisk(t)
	s, err := New(d)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.SelectFileID(0x7F10); err != nil {
		t.Fatalf("SelectFileID: %v", err)
	}

	if err := s.SelectFileSID(0x01); err != nil {
		t.Fatalf("SelectFileSID: %v", err)
	}
	if s.CurEF == nil || s.CurEF.SID != 0x01 {
		t.Fatalf("CurEF = %+v, want sid 0x01", s.CurEF)
	}
	if s.CurDF == nil || s.CurDF.ID != 0x7F10 {
		t.Fatalf("CurDF = %+v, want the EF's parent fid 0x7f10", s.CurDF)
	}
}

func TestSelectRecordIdx(t *testing.T) {
	d := buildTestDisk(t)
	s, err := New(d)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.SelectFileID(0x6F50); err != nil {
		t.Fatalf("SelectFileID: %v", err)
	}

	if err := s.SelectRecordIdx(0); err != nil {
		t.Fatalf("SelectRecordIdx(0): %v", err)
	}
	if s.CurRcrd == nil || *s.CurRcrd != 0 {
		t.Fatalf("CurRcrd = %v, want 0", s.CurRcrd)
	}

	if err := s.SelectRecordIdx(5); err == nil {
		t.Error("expected an error selecting an out-of-range record index")
	}
}

func TestSelectRecordIdxRequiresRecordEF(t *testing.T) {
	d := buildTestDisk(t)
	s, err := New(d)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.SelectFileID(0x6F3A); err != nil { // transparent EF
		t.Fatalf("SelectFileID: %v", err)
	}
	if err := s.SelectRecordIdx(0); err == nil {
		t.Error("expected an error selecting a record index on a transparent EF")
	}
}

func TestUnimplementedSelectors(t *testing.T) {
	d := buildTestDisk(t)
	s, err := New(d)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.SelectFileDFName(nil); err != types.ErrNotImplemented {
		t.Errorf("SelectFileDFName: got %v, want ErrNotImplemented", err)
	}
	if err := s.SelectFilePath(nil); err != types.ErrNotImplemented {
		t.Errorf("SelectFilePath: got %v, want ErrNotImplemented", err)
	}
	if err := s.SelectDataOffset(0); err != types.ErrNotImplemented {
		t.Errorf("SelectDataOffset: got %v, want ErrNotImplemented", err)
	}
}

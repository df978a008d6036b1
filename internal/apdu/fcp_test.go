package apdu

import (
	"bytes"
	"testing"

	"github.com/deploymenttheory/go-uicc/internal/types"
)

// readTLV parses one tag-length-value record (short form only, enough for
// this package's fixed, bounded field set) and returns the remainder.
func readTLV(t *testing.T, buf []byte) (tag byte, value, rest []byte) {
	t.Helper()
	if len(buf) < 2 {
		t.Fatalf("buffer too short for a tlv header: % x", buf)
	}
	tag = buf[0]
	length := int(buf[1])
	if len(buf) < 2+length {
		t.Fatalf("buffer too short for declared length %d: % x", length, buf)
	}
	value = buf[2 : 2+length]
	rest = buf[2+length:]
	return
}

func TestEncodeSelectResponseFCPTransparentEF(t *testing.T) {
	f := types.File{
		Header:   types.ItemHeader{Type: types.ItemEFTransparent, LCS: types.LCSOperationalActivated},
		ID:       0x6F3A,
		SID:      0x01,
		DataSize: 5,
	}
	out := encodeSelectResponse(f, responseFCP)

	tag, value, rest := readTLV(t, out)
	if tag != 0x62 {
		t.Fatalf("outer tag = 0x%02x, want 0x62", tag)
	}
	if len(rest) != 0 {
		t.Fatalf("trailing bytes after outer FCP tlv: % x", rest)
	}

	// Per the backward-write order, fields land 0x88, 0x80, 0x8A, 0x83, 0x82.
	wantOrder := []byte{0x88, 0x80, 0x8A, 0x83, 0x82}
	buf := value
	for _, wantTag := range wantOrder {
		var gotTag byte
		gotTag, _, buf = readTLV(t, buf)
		if gotTag != wantTag {
			t.Fatalf("field order: got tag 0x%02x, want 0x%02x", gotTag, wantTag)
		}
	}
	if len(buf) != 0 {
		t.Errorf("unexpected trailing bytes in FCP content: % x", buf)
	}

	// Spot-check the values of a couple of fields.
	_, sidVal, _ := readTLV(t, value)
	if !bytes.Equal(sidVal, []byte{0x01}) {
		t.Errorf("sid field value = % x, want 01", sidVal)
	}
}

func TestEncodeSelectResponseFCPFolder(t *testing.T) {
	f := types.File{
		Header:   types.ItemHeader{Type: types.ItemDF, LCS: types.LCSOperationalActivated},
		ID:       0x7F10,
		DataSize: 65,
	}
	copy(f.Name[:], "DF.TEL")
	out := encodeSelectResponse(f, responseFCP)

	tag, value, _ := readTLV(t, out)
	if tag != 0x62 {
		t.Fatalf("outer tag = 0x%02x, want 0x62", tag)
	}

	// Folders carry 0x84 (name) instead of 0x88 (sfi).
	wantOrder := []byte{0x84, 0x80, 0x8A, 0x83, 0x82}
	buf := value
	for _, wantTag := range wantOrder {
		var gotTag byte
		var gotVal []byte
		gotTag, gotVal, buf = readTLV(t, buf)
		if gotTag != wantTag {
			t.Fatalf("field order: got tag 0x%02x, want 0x%02x", gotTag, wantTag)
		}
		if wantTag == 0x84 && !bytes.HasPrefix(gotVal, []byte("DF.TEL")) {
			t.Errorf("name field = %q, want prefix DF.TEL", gotVal)
		}
	}
}

func TestEncodeSelectResponseFCI(t *testing.T) {
	f := types.File{
		Header: types.ItemHeader{Type: types.ItemMF, LCS: types.LCSOperationalActivated},
		ID:     types.MFFid,
	}
	out := encodeSelectResponse(f, responseFCI)

	tag, value, rest := readTLV(t, out)
	if tag != 0x6F {
		t.Fatalf("outer FCI tag = 0x%02x, want 0x6f", tag)
	}
	if len(rest) != 0 {
		t.Errorf("trailing bytes after FCI tlv: % x", rest)
	}

	// FCP must precede FMD in the FCI's forward content (the backward
	// encoder's ordering places whichever nested block was written
	// chronologically last closest to the front).
	innerTag, _, afterFCP := readTLV(t, value)
	if innerTag != 0x62 {
		t.Fatalf("first nested tag = 0x%02x, want 0x62 (FCP)", innerTag)
	}
	fmdTag, fmdVal, trailing := readTLV(t, afterFCP)
	if fmdTag != 0x64 {
		t.Fatalf("second nested tag = 0x%02x, want 0x64 (FMD)", fmdTag)
	}
	if len(fmdVal) != 0 {
		t.Errorf("fmd value = % x, want empty", fmdVal)
	}
	if len(trailing) != 0 {
		t.Errorf("unexpected trailing bytes: % x", trailing)
	}
}

func TestEncodeSelectResponseAbsent(t *testing.T) {
	if got := encodeSelectResponse(types.File{}, responseAbsent); got != nil {
		t.Errorf("expected nil for responseAbsent, got % x", got)
	}
}

func TestFileDescriptorAndCoding(t *testing.T) {
	cases := []struct {
		typ     types.ItemType
		wantFdb byte
	}{
		{types.ItemMF, 0x38},
		{types.ItemDF, 0x38},
		{types.ItemADF, 0x38},
		{types.ItemEFTransparent, 0x01},
		{types.ItemEFLinearFixed, 0x02},
		{types.ItemEFCyclic, 0x06},
	}
	for _, c := range cases {
		got := fileDescriptorAndCoding(types.File{Header: types.ItemHeader{Type: c.typ}})
		if got[0] != c.wantFdb || got[1] != 0x00 {
			t.Errorf("%s: got % x, want [%02x 00]", c.typ, got, c.wantFdb)
		}
	}
}

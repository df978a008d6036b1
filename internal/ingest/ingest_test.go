package ingest

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/deploymenttheory/go-uicc/internal/disk"
	"github.com/deploymenttheory/go-uicc/internal/types"
)

func mustRawMessage(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return b
}

const testDiskJSON = `{
  "disk": [
    {
      "type": "file_mf",
      "id": "3F00",
      "name": "MF",
      "contents": [
        {
          "type": "file_df",
          "id": "7F10",
          "name": "DF.TEL",
          "contents": [
            {
              "type": "file_ef_transparent",
              "id": "6F3A",
              "sid": "01",
              "name": "EF1",
              "contents": {"hex": "0102030405"}
            },
            {
              "type": "file_ef_linear-fixed",
              "id": "6F50",
              "sid": "02",
              "name": "RECS",
              "record_size": 4,
              "contents": ["AABBCCDD", "11223344"]
            }
          ]
        },
        {
          "type": "file_ef_transparent",
          "id": "2FE2",
          "sid": "03",
          "name": "ICCID",
          "contents": {"ascii": "89001012012345678901"}
        }
      ]
    },
    {
      "type": "file_adf",
      "name": "USIM",
      "aid": "A0000000871002258901020000000000",
      "contents": []
    }
  ]
}`

func TestParseBuildsExpectedForest(t *testing.T) {
	d, err := Parse(strings.NewReader(testDiskJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(d.Trees) != 2 {
		t.Fatalf("got %d trees, want 2", len(d.Trees))
	}

	root, err := d.Trees[0].RootFile()
	if err != nil {
		t.Fatalf("RootFile: %v", err)
	}
	if root.Header.Type != types.ItemMF || root.ID != 0x3F00 {
		t.Errorf("tree 0 root = %+v, want MF 0x3f00", root)
	}

	adfRoot, err := d.Trees[1].RootFile()
	if err != nil {
		t.Fatalf("RootFile: %v", err)
	}
	if adfRoot.Header.Type != types.ItemADF {
		t.Errorf("tree 1 root type = %s, want ADF", adfRoot.Header.Type)
	}
	wantRID := [types.RIDSize]byte{0xA0, 0x00, 0x00, 0x00, 0x87}
	if adfRoot.RID != wantRID {
		t.Errorf("adf rid = % x, want % x", adfRoot.RID, wantRID)
	}
}

func TestParseProducesValidDisk(t *testing.T) {
	d, err := Parse(strings.NewReader(testDiskJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := disk.Validate(d); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseRoundTripsThroughSave(t *testing.T) {
	d, err := Parse(strings.NewReader(testDiskJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var buf bytes.Buffer
	if err := d.SaveTo(&buf); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	reloaded, err := disk.LoadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	tree, f, ok, err := reloaded.LookupByFid(0x6F3A)
	if err != nil {
		t.Fatalf("LookupByFid: %v", err)
	}
	if !ok {
		t.Fatal("expected fid 0x6f3a to round-trip through save/load")
	}
	if got := disk.Data(tree, f); !bytes.Equal(got, []byte{0x01, 0x02, 0x03, 0x04, 0x05}) {
		t.Errorf("ef1 data after round trip = % x, want 01 02 03 04 05", got)
	}
}

func TestParseRejectsEmptyDisk(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"disk": []}`))
	if err == nil {
		t.Fatal("expected an error for an empty disk")
	}
}

func TestParseRejectsNonMFFirstTree(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"disk": [{"type": "file_df", "id": "7F10"}]}`))
	if err == nil {
		t.Fatal("expected an error when the first tree is not file_mf")
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse(strings.NewReader(`{not json`))
	if err == nil {
		t.Fatal("expected an error for malformed json")
	}
}

func TestParseRejectsBadID(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"disk": [{"type": "file_mf", "id": "ZZ"}]}`))
	if err == nil {
		t.Fatal("expected an error for a non-hex id")
	}
}

func TestParseRejectsOversizedRecord(t *testing.T) {
	spec := `{
      "disk": [
        {
          "type": "file_mf",
          "id": "3F00",
          "contents": [
            {
              "type": "file_ef_linear-fixed",
              "id": "6F50",
              "record_size": 2,
              "contents": ["AABBCC"]
            }
          ]
        }
      ]
    }`
	_, err := Parse(strings.NewReader(spec))
	if err == nil {
		t.Fatal("expected an error for a record longer than record_size")
	}
}

func TestBuildTreeGrowsBufferOnRetry(t *testing.T) {
	// A transparent EF whose content alone exceeds the initial 512-byte
	// buffer forces buildTree to grow and retry at least once.
	bigHex := strings.Repeat("AB", 600)
	spec := FileSpec{
		Type: "file_mf",
		ID:   "3F00",
		Contents: mustRawMessage(t, []FileSpec{{
			Type:     "file_ef_transparent",
			ID:       "6F01",
			Contents: mustRawMessage(t, map[string]string{"hex": bigHex}),
		}}),
	}
	buf, err := buildTree(spec)
	if err != nil {
		t.Fatalf("buildTree: %v", err)
	}
	if len(buf) < 600 {
		t.Fatalf("built tree is only %d bytes, expected it to hold the 600-byte EF", len(buf))
	}
}

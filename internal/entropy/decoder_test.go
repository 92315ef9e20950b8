package entropy

import "testing"

func TestDecode_HuffmanRoundTrip(t *testing.T) {
	pairs := []struct {
		coeff int16
		run   int32
	}{
		{0, 0},
		{5, 3},
		{-5, 3},
		{127, 0},
		{-32768, 0},
		{1, 1000},
		{0, 70000},
	}

	var w bitWriter
	for _, p := range pairs {
		encodeDefaultPair(&w, p.coeff, p.run)
	}
	data := w.flush()

	d := Initialize(data, false, KindDefault, 0)
	for i, want := range pairs {
		coeff, run, err := d.Decode()
		if err != nil {
			t.Fatalf("pair %d: unexpected error %v", i, err)
		}
		if coeff != want.coeff || run != want.run {
			t.Fatalf("pair %d: got (%d,%d), want (%d,%d)", i, coeff, run, want.coeff, want.run)
		}
	}
	if _, _, err := d.Decode(); err != ErrNoData {
		t.Fatalf("expected ErrNoData at end of stream, got %v", err)
	}
}

func TestDecodeTemporal_HuffmanRoundTrip(t *testing.T) {
	pairs := []struct {
		signal Signal
		run    int32
	}{
		{SignalInter, 0},
		{SignalIntra, 5},
		{SignalInter, 100000},
	}
	var w bitWriter
	for _, p := range pairs {
		encodeTemporalPair(&w, p.signal, p.run)
	}
	data := w.flush()

	d := Initialize(data, false, KindTemporal, 0)
	for i, want := range pairs {
		sig, run, err := d.DecodeTemporal()
		if err != nil {
			t.Fatalf("pair %d: unexpected error %v", i, err)
		}
		if sig != want.signal || run != want.run {
			t.Fatalf("pair %d: got (%v,%d), want (%v,%d)", i, sig, run, want.signal, want.run)
		}
	}
	if _, _, err := d.DecodeTemporal(); err != ErrNoData {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestDecode_RLEOnly(t *testing.T) {
	// Two records: coeff=7 run=2, coeff=-1 run=300 (run >= 0xFF escape).
	data := []byte{
		0x07, 0x00, 0x02, // coeff LE int16, run byte
		0xFF, 0xFF, 0xFF, 0x2C, 0x01, 0x00, 0x00, // coeff LE int16, escape run (300)
	}
	d := Initialize(data, true, KindDefault, 0)

	coeff, run, err := d.Decode()
	if err != nil || coeff != 7 || run != 2 {
		t.Fatalf("rec 1: got (%d,%d,%v), want (7,2,nil)", coeff, run, err)
	}
	coeff, run, err = d.Decode()
	if err != nil || coeff != -1 || run != 300 {
		t.Fatalf("rec 2: got (%d,%d,%v), want (-1,300,nil)", coeff, run, err)
	}
	if _, _, err := d.Decode(); err != ErrNoData {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestDecode_TruncatedIsFatal(t *testing.T) {
	// A single zero byte can't possibly complete a Huffman code starting a
	// large-category symbol; use a reader with only a code prefix and no
	// extra bits present.
	var w bitWriter
	encodeDefaultPair(&w, 1000, 50000)
	data := w.flush()
	// Truncate to just the first byte: almost certainly chops off
	// required extra bits for this combination.
	truncated := data[:1]

	d := Initialize(truncated, false, KindDefault, 0)
	_, _, err := d.Decode()
	if err != ErrTruncated && err != ErrInvalidCode {
		t.Fatalf("expected a fatal decode error, got %v", err)
	}
}

func TestCategory_RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2, -2, 3, -3, 127, -128, 32767, -32768} {
		cat, extra := encodeSignedCategoryValue(v)
		got := decodeSignedCategoryValue(cat, extra)
		if got != v {
			t.Errorf("value %d: roundtrip got %d (cat=%d extra=%d)", v, got, cat, extra)
		}
	}
	for _, v := range []int32{0, 1, 2, 3, 255, 1000, 1 << 20} {
		cat, extra := encodeUnsignedCategoryValue(v)
		got := decodeUnsignedCategoryValue(cat, extra)
		if got != v {
			t.Errorf("run %d: roundtrip got %d (cat=%d extra=%d)", v, got, cat, extra)
		}
	}
}

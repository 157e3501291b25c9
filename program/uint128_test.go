package program

import (
	"encoding/json"
	"testing"
)

func TestU128JSONRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 42, 1 << 63} {
		u := U128FromUint64(v)
		b, err := json.Marshal(u)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		var got U128
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if got.Uint64() != v {
			t.Fatalf("json round trip mismatch for %d: got %d", v, got.Uint64())
		}
	}
}

func TestU128AddOverflow(t *testing.T) {
	max128 := U128FromBytes16(bytesAllOnes())
	_, err := max128.Add("t", U128FromUint64(1))
	if CodeOf(err) != ArithmeticOverflow {
		t.Fatalf("expected ArithmeticOverflow, got %v", err)
	}
}

func TestU128SubUnderflow(t *testing.T) {
	_, err := U128FromUint64(1).Sub("t", U128FromUint64(2))
	if CodeOf(err) != ArithmeticUnderflow {
		t.Fatalf("expected ArithmeticUnderflow, got %v", err)
	}
}

func TestU128MulOverflow(t *testing.T) {
	max128 := U128FromBytes16(bytesAllOnes())
	_, err := max128.Mul("t", U128FromUint64(2))
	if CodeOf(err) != ArithmeticOverflow {
		t.Fatalf("expected ArithmeticOverflow, got %v", err)
	}
}

func TestU128MulDivFloors(t *testing.T) {
	// 1000 * 1 / 3 == 333 (floor division).
	got, err := U128FromUint64(1000).MulDiv("t", U128FromUint64(1), U128FromUint64(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Uint64() != 333 {
		t.Fatalf("expected 333, got %d", got.Uint64())
	}
}

func TestU128MulDivDivisionByZero(t *testing.T) {
	_, err := U128FromUint64(1000).MulDiv("t", U128FromUint64(1), U128FromUint64(0))
	if CodeOf(err) != DivisionByZero {
		t.Fatalf("expected DivisionByZero, got %v", err)
	}
}

func TestU128RoundTripBytes16(t *testing.T) {
	for _, v := range []uint64{0, 1, 42, 1 << 63} {
		u := U128FromUint64(v)
		b := u.Bytes16()
		got := U128FromBytes16(b[:])
		if got.Uint64() != v {
			t.Fatalf("round trip mismatch for %d: got %d", v, got.Uint64())
		}
	}
}

func bytesAllOnes() []byte {
	b := make([]byte, 16)
	for i := range b {
		b[i] = 0xff
	}
	return b
}

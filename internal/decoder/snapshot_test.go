package decoder

import (
	"errors"
	"testing"

	"github.com/terravue/surveytiler/internal/mesh"
)

func snapshotFixture() *mesh.Mesh {
	return mesh.New(
		[]float32{0, 0, 0, 2, 0, 0, 0, 1, 1, 2, 1, 1},
		[]uint32{0, 1, 2, 1, 3, 2},
		[3]float64{1000, 2000, 50},
	)
}

// TestSnapshotRoundTrip verifies the persistence boundary reproduces the
// mesh bit for bit.
func TestSnapshotRoundTrip(t *testing.T) {
	m := snapshotFixture()

	got, err := MeshFromBytes(MeshToBytes(m))
	if err != nil {
		t.Fatalf("MeshFromBytes failed: %v", err)
	}
	if !got.Equal(m) {
		t.Fatal("round-tripped mesh differs from original")
	}
}

// TestSnapshotVersionRejected verifies a future version tag is rejected
// instead of being silently misread.
func TestSnapshotVersionRejected(t *testing.T) {
	buf := MeshToBytes(snapshotFixture())
	buf[4] = 2

	_, err := MeshFromBytes(buf)
	if !errors.Is(err, ErrUnsupportedVariant) {
		t.Fatalf("got %v, want unsupported variant", err)
	}
}

// TestSnapshotTruncated verifies short buffers never yield a partial mesh.
func TestSnapshotTruncated(t *testing.T) {
	buf := MeshToBytes(snapshotFixture())

	for _, cut := range []int{len(buf) - 1, snapshotHeaderSize, 7, 0} {
		m, err := MeshFromBytes(buf[:cut])
		if m != nil {
			t.Fatalf("cut at %d: got a mesh back from a truncated snapshot", cut)
		}
		if !errors.Is(err, ErrTruncated) {
			t.Errorf("cut at %d: got %v, want truncated error", cut, err)
		}
	}
}

// TestSnapshotBadConnectivity verifies index validation on load.
func TestSnapshotBadConnectivity(t *testing.T) {
	m := mesh.New(
		[]float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		[]uint32{0, 1, 7},
		[3]float64{},
	)
	_, err := MeshFromBytes(MeshToBytes(m))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v, want malformed error", err)
	}
}

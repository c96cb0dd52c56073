package cursor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type liquidKind uint16

func TestReader_Primitives(t *testing.T) {
	w := NewWriter(64)
	w.PutUint8(0xAB)
	w.PutUint16(0x1234)
	w.PutUint32(0xDEADBEEF)
	w.PutInt32(-7)
	w.PutFloat32(1.5)
	Write(w, int64(-1))
	Write(w, liquidKind(3))
	w.PutCString("Water")
	w.PutTag("WDBC")

	r := NewReader(w.Bytes())

	u8, err := r.Uint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	u16, err := r.Uint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := r.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	i32, err := r.Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(-7), i32)

	f32, err := r.Float32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)

	i64, err := r.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), i64)

	kind, err := Read[liquidKind](r)
	require.NoError(t, err)
	assert.Equal(t, liquidKind(3), kind)

	s, err := r.CString()
	require.NoError(t, err)
	assert.Equal(t, "Water", s)

	tag, err := r.Tag()
	require.NoError(t, err)
	assert.Equal(t, "WDBC", tag)

	assert.Equal(t, 0, r.Remaining())
	assert.Equal(t, r.Len(), r.Pos())
}

func TestReader_OutOfBounds(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03})

	_, err := r.Uint32()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	var bounds *BoundsError
	require.ErrorAs(t, err, &bounds)
	assert.Equal(t, 0, bounds.Offset)
	assert.Equal(t, 4, bounds.Need)
	assert.Equal(t, 3, bounds.Have)

	// A failed read does not move the cursor.
	assert.Equal(t, 0, r.Pos())

	v, err := r.Uint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), v)

	_, err = r.Uint16()
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestReader_CStringUnterminated(t *testing.T) {
	r := NewReader([]byte("Lava"))
	_, err := r.CString()
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestReader_Seek(t *testing.T) {
	r := NewReader(make([]byte, 8))

	require.NoError(t, r.Seek(8))
	assert.Equal(t, 0, r.Remaining())

	assert.ErrorIs(t, r.Seek(9), ErrOutOfBounds)
	assert.ErrorIs(t, r.Seek(-1), ErrOutOfBounds)

	require.NoError(t, r.Seek(2))
	require.NoError(t, r.Skip(4))
	assert.Equal(t, 6, r.Pos())
	assert.ErrorIs(t, r.Skip(3), ErrOutOfBounds)
}

func TestReadSlice(t *testing.T) {
	w := NewWriter(0)
	WriteSlice(w, []float32{1, 2, 3})

	got, err := ReadSlice[float32](NewReader(w.Bytes()), 3)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, got)

	_, err = ReadSlice[float32](NewReader(w.Bytes()), 4)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestWriter_PutUint32At(t *testing.T) {
	w := NewWriter(8)
	w.PutUint32(0)
	w.PutUint32(0)

	require.NoError(t, w.PutUint32At(4, 99))
	assert.Error(t, w.PutUint32At(6, 1))

	v, err := NewReader(w.Bytes()[4:]).Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(99), v)
}

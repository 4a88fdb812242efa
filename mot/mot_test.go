package mot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swdee/go-sortlite/tracker"
)

const detTxt = `1,-1,1359.1,413.27,120.26,362.77,2.3092,-1,-1,-1
1,-1,571.03,402.13,104.56,315.68,1.5028,-1,-1,-1

3,-1,650.8,455.86,63.98,193.94,0.33276,-1,-1,-1
2,-1,1359.1,413.27,120.26,362.77,2.4731,-1,-1,-1
`

func TestRead(t *testing.T) {

	frames, err := Read(strings.NewReader(detTxt))
	require.NoError(t, err)
	require.Len(t, frames, 3)

	assert.Equal(t, 1, frames[0].Number)
	assert.Equal(t, 2, frames[1].Number)
	assert.Equal(t, 3, frames[2].Number)

	require.Len(t, frames[0].Detections, 2)

	det := frames[0].Detections[1]
	assert.InDelta(t, 571.03, det.X1, 1e-9)
	assert.InDelta(t, 402.13, det.Y1, 1e-9)
	assert.InDelta(t, 571.03+104.56, det.X2, 1e-9)
	assert.InDelta(t, 402.13+315.68, det.Y2, 1e-9)
	assert.InDelta(t, 1.5028, det.Score, 1e-9)
	assert.Equal(t, int64(2), det.ID)

	// IDs follow file order, not frame order
	assert.Equal(t, int64(3), frames[2].Detections[0].ID)
	assert.Equal(t, int64(4), frames[1].Detections[0].ID)
}

func TestReadErrors(t *testing.T) {

	_, err := Read(strings.NewReader("1,-1,10,10,5\n"))
	assert.ErrorIs(t, err, ErrRecord)

	_, err = Read(strings.NewReader("1,-1,10,ten,5,5,1\n"))
	assert.ErrorIs(t, err, ErrRecord)

	_, err = Read(strings.NewReader("0,-1,10,10,5,5,1\n"))
	assert.ErrorIs(t, err, ErrRecord)
}

func TestSequence(t *testing.T) {

	frames := []Frame{
		{Number: 2, Detections: []tracker.Detection{{X2: 1, Y2: 1}}},
		{Number: 4},
	}

	seq := Sequence(frames)
	require.Len(t, seq, 4)

	for i, f := range seq {
		assert.Equal(t, i+1, f.Number)
	}

	assert.Len(t, seq[1].Detections, 1)
	assert.Empty(t, seq[0].Detections)
	assert.Nil(t, Sequence(nil))
}

func TestWriter(t *testing.T) {

	var buf bytes.Buffer

	w := NewWriter(&buf)

	err := w.WriteFrame(7, []tracker.Result{
		{Rect: tracker.NewRect(10, 20, 40, 80), TrackID: 3},
		{Rect: tracker.NewRect(1.5, 2.25, 3.5, 4.25), TrackID: 12},
	})
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	expected := "7,3,10.00,20.00,30.00,60.00,1,-1,-1,-1\n" +
		"7,12,1.50,2.25,2.00,2.00,1,-1,-1,-1\n"

	assert.Equal(t, expected, buf.String())
}

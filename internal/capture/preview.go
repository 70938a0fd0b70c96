package capture

import (
	"fmt"

	"gocv.io/x/gocv"
)

// PreviewQuality is the JPEG quality of preview frames.
const PreviewQuality = 80

// EncodePreview returns frame as a horizontally mirrored JPEG, so the
// preview moves the same way as the user's hand and matches the drawing.
func EncodePreview(frame *gocv.Mat) ([]byte, error) {
	if frame == nil || frame.Empty() {
		return nil, ErrEmptyFrame
	}

	mirrored := gocv.NewMat()
	defer mirrored.Close()
	gocv.Flip(*frame, &mirrored, 1)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mirrored, []int{int(gocv.IMWriteJpegQuality), PreviewQuality})
	if err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	defer buf.Close()

	// The buffer's memory belongs to OpenCV; copy before closing it.
	return append([]byte(nil), buf.GetBytes()...), nil
}

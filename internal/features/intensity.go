package features

import (
	"fmt"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// Intensity returns the mean and standard deviation of the grayscale
// intensities of the image at path. It is the cheap subset of Extract used by
// fallback paths that only need brightness and contrast.
func Intensity(path string) (mean, std float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("intensity of %s: %v", path, r)
		}
	}()

	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return 0, 0, fmt.Errorf("read image %s: no decodable data", path)
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	pixels := matToFloats(gray)
	if len(pixels) == 0 {
		return 0, 0, fmt.Errorf("read image %s: zero-sized image", path)
	}
	mean, std = stat.MeanStdDev(pixels, nil)
	return mean, std, nil
}

package probe

// HeightProber reads the pixel height of the primary video stream of a file
type HeightProber interface {
	Height(path string) (int, error)
}

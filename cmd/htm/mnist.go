package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/htm-project/htm-core/internal/cortical/classifier"
	"github.com/htm-project/htm-core/internal/cortical/spatial"
	"github.com/htm-project/htm-core/internal/domain/htm"
)

// IDX file headers (big endian).
const (
	idxImageMagic = 2051
	idxLabelMagic = 2049
)

// newMNISTCommand trains the pooler plus classifier on the MNIST training
// set and reports accuracy on the test set. Expects the standard IDX files.
func newMNISTCommand() *cobra.Command {
	var dataDir string
	var limit int

	cmd := &cobra.Command{
		Use:   "mnist",
		Short: "Classify MNIST digits through the spatial pooler",
		RunE: func(cmd *cobra.Command, args []string) error {
			trainImages, err := openImages(dataDir + "/train-images.idx3-ubyte")
			if err != nil {
				return err
			}
			defer trainImages.Close()
			trainLabels, err := openLabels(dataDir + "/train-labels.idx1-ubyte")
			if err != nil {
				return err
			}
			defer trainLabels.Close()
			testImages, err := openImages(dataDir + "/t10k-images.idx3-ubyte")
			if err != nil {
				return err
			}
			defer testImages.Close()
			testLabels, err := openLabels(dataDir + "/t10k-labels.idx1-ubyte")
			if err != nil {
				return err
			}
			defer testLabels.Close()

			config := htm.DefaultSpatialPoolerConfig([]int{28 * 28}, []int{64, 64})
			config.PotentialRadius = 28 * 3
			config.GlobalInhibition = true
			config.NumActiveColumnsPerInhArea = 0.2 * float64(config.NumColumns())
			config.StimulusThreshold = 1.0
			config.Permanence.ActiveInc = 0.0
			config.Permanence.InactiveDec = 0.0
			config.Permanence.Connected = 0.2
			config.PotentialPct = 20.0 / float64(config.PotentialRadius)
			config.CompatibilityMode = true

			pooler, err := spatial.NewSpatialPooler(config)
			if err != nil {
				return err
			}
			cls, err := classifier.NewSDRClassifier([]int{0}, 0.1, 0.3, pooler.NumColumns())
			if err != nil {
				return err
			}

			input := make([]bool, pooler.NumInputs())

			trainCount := trainImages.count
			if limit > 0 && limit < trainCount {
				trainCount = limit
			}
			fmt.Printf("Training on: %d\n", trainCount)

			record := 0
			for i := 0; i < trainCount; i++ {
				image, err := trainImages.Next()
				if err != nil {
					return err
				}
				label, err := trainLabels.Next()
				if err != nil {
					return err
				}
				thresholdImage(image, input)
				pooler.Compute(input, true)
				cls.Compute(record, int(label), float64(label), pooler.WinnerColumns(), true, false)
				record++
			}

			testCount := testImages.count
			if limit > 0 && limit < testCount {
				testCount = limit
			}
			fmt.Printf("Testing on: %d\n", testCount)

			good := 0
			for i := 0; i < testCount; i++ {
				image, err := testImages.Next()
				if err != nil {
					return err
				}
				label, err := testLabels.Next()
				if err != nil {
					return err
				}
				thresholdImage(image, input)
				pooler.Compute(input, false)
				results := cls.Compute(record, int(label), float64(label), pooler.WinnerColumns(), false, true)
				for _, result := range results {
					if result.MostProbableBucket() == int(label) {
						good++
					}
				}
				record++
			}

			fmt.Printf("Accuracy: %.4f, Total: %d Good: %d\n",
				float64(good)/float64(testCount), testCount, good)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", ".", "Directory holding the MNIST IDX files")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap on images per phase (0 = all)")
	return cmd
}

func thresholdImage(image []byte, into []bool) {
	for i := range into {
		into[i] = i < len(image) && image[i] > 127
	}
}

// imageReader streams images from an IDX3 file.
type imageReader struct {
	file   *os.File
	reader *bufio.Reader
	count  int
	width  int
	height int
	buffer []byte
}

func openImages(path string) (*imageReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open images file: %w", err)
	}
	reader := bufio.NewReader(file)

	var header [4]int32
	for i := range header {
		if err := binary.Read(reader, binary.BigEndian, &header[i]); err != nil {
			file.Close()
			return nil, fmt.Errorf("read image header: %w", err)
		}
	}
	if header[0] != idxImageMagic {
		file.Close()
		return nil, fmt.Errorf("wrong image header %d", header[0])
	}

	r := &imageReader{
		file:   file,
		reader: reader,
		count:  int(header[1]),
		height: int(header[2]),
		width:  int(header[3]),
	}
	r.buffer = make([]byte, r.width*r.height)
	return r, nil
}

// Next returns the next image's raw pixels. The buffer is reused.
func (r *imageReader) Next() ([]byte, error) {
	if _, err := io.ReadFull(r.reader, r.buffer); err != nil {
		return nil, err
	}
	return r.buffer, nil
}

func (r *imageReader) Close() error { return r.file.Close() }

// labelReader streams labels from an IDX1 file.
type labelReader struct {
	file   *os.File
	reader *bufio.Reader
	count  int
}

func openLabels(path string) (*labelReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open labels file: %w", err)
	}
	reader := bufio.NewReader(file)

	var header [2]int32
	for i := range header {
		if err := binary.Read(reader, binary.BigEndian, &header[i]); err != nil {
			file.Close()
			return nil, fmt.Errorf("read label header: %w", err)
		}
	}
	if header[0] != idxLabelMagic {
		file.Close()
		return nil, fmt.Errorf("wrong label header %d", header[0])
	}

	return &labelReader{file: file, reader: reader, count: int(header[1])}, nil
}

func (r *labelReader) Next() (byte, error) {
	return r.reader.ReadByte()
}

func (r *labelReader) Close() error { return r.file.Close() }

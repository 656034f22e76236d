package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/AllenInstitute/pycilium/pkg/geometry"
)

// WriteBinary encodes the model as a binary STL stream
func WriteBinary(w io.Writer, model *Model) error {
	bw := bufio.NewWriter(w)

	header := make([]byte, 80)
	copy(header, model.Name)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(model.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i, tri := range model.Triangles {
		normal := tri.Normal
		if normal == (geometry.Vector3{}) {
			normal = tri.CalculateNormal()
		}

		record := [12]float32{
			float32(normal.X), float32(normal.Y), float32(normal.Z),
			float32(tri.V1.X), float32(tri.V1.Y), float32(tri.V1.Z),
			float32(tri.V2.X), float32(tri.V2.Y), float32(tri.V2.Z),
			float32(tri.V3.X), float32(tri.V3.Y), float32(tri.V3.Z),
		}
		if err := binary.Write(bw, binary.LittleEndian, record); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("failed to write attribute for triangle %d: %w", i, err)
		}
	}

	return bw.Flush()
}

// WriteFile writes the model to filename as binary STL
func WriteFile(filename string, model *Model) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := WriteBinary(file, model); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

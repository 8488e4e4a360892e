package ports

import (
	"context"
	"io"

	"autobi/domain/dataset"
)

// DataReader loads a tabular file into a dataset
type DataReader interface {
	ReadFile(ctx context.Context, path string) (*dataset.Dataset, error)
	Read(ctx context.Context, name string, r io.Reader) (*dataset.Dataset, error)
}

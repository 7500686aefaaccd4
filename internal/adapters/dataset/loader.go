package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"search-service/internal/contracts"
	"search-service/internal/core/domain"
	"sync"
)

// FileDestinationDataset loads the route dataset from a JSON file the first
// time it is needed. The result, including a load error, is kept for the
// life of the process.
type FileDestinationDataset struct {
	load func() (*domain.DestinationCatalog, error)
}

func NewFileDestinationDataset(path string) *FileDestinationDataset {
	return &FileDestinationDataset{
		load: sync.OnceValues(func() (*domain.DestinationCatalog, error) {
			return loadCatalog(path)
		}),
	}
}

// Catalog implements port.DestinationDatasetPort.
func (d *FileDestinationDataset) Catalog() (*domain.DestinationCatalog, error) {
	return d.load()
}

func loadCatalog(path string) (*domain.DestinationCatalog, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read destinations dataset %s: %w", path, err)
	}
	if err := contracts.ValidateDataset(contracts.DestinationsDatasetSchema, body); err != nil {
		return nil, fmt.Errorf("destinations dataset %s is invalid: %w", path, err)
	}

	var records []domain.DestinationRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode destinations dataset %s: %w", path, err)
	}
	return domain.NewDestinationCatalog(records), nil
}

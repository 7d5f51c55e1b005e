package journal

import (
	"fmt"

	"go.uber.org/zap"
)

// Backend names accepted by Open.
const (
	BackendJSONL  = "jsonl"
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Open returns the journal backend named kind, stored at path.
func Open(kind, path string, log *zap.Logger) (Journal, error) {
	var (
		j   Journal
		err error
	)
	switch kind {
	case BackendJSONL, "":
		j, err = NewJSONL(path, log)
	case BackendCSV:
		j, err = NewCSV(path, log)
	case BackendSQLite:
		j, err = NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown journal backend %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

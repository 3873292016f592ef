package report

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/theapemachine/qsearch"
)

// WriteRecords encodes records as MessagePack.
func WriteRecords(w io.Writer, records qsearch.Records) error {
	return msgpack.NewEncoder(w).Encode(records)
}

// ReadRecords decodes records written by WriteRecords, re-sorting them by N.
func ReadRecords(r io.Reader) (qsearch.Records, error) {
	var records []qsearch.BenchmarkRecord
	if err := msgpack.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}

	return qsearch.NewRecords(records...)
}

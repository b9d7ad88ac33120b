package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/ytget/yt-clipper/internal/model"
)

// Emitter writes the machine-readable result of a run. Only the first call
// to Emit writes anything; the caller relies on exactly one object on stdout.
type Emitter struct {
	out  io.Writer
	once sync.Once
	err  error
}

// NewEmitter creates an emitter writing to out
func NewEmitter(out io.Writer) *Emitter {
	return &Emitter{out: out}
}

// Emit serializes result as a single JSON line. Later calls are ignored and
// return the error of the first one.
func (e *Emitter) Emit(result model.DownloadResult) error {
	e.once.Do(func() {
		data, err := json.Marshal(result)
		if err != nil {
			e.err = fmt.Errorf("failed to encode result: %w", err)
			return
		}

		data = append(data, '\n')
		if _, err := e.out.Write(data); err != nil {
			e.err = fmt.Errorf("failed to write result: %w", err)
		}
	})
	return e.err
}

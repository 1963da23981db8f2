package trainer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/haskel/drainfox/internal/regress"
)

// artifact is the serialized form of a fitted predictor. The envelope
// records the model type so loading can reconstruct the right regressor.
type artifact struct {
	Model regress.ModelType `json:"model"`
	State json.RawMessage   `json:"state"`
}

// Save serializes the predictor to a writer.
func (p *Predictor) Save(w io.Writer) error {
	var state bytes.Buffer
	if err := p.reg.Save(&state); err != nil {
		return fmt.Errorf("failed to serialize %s state: %w", p.reg.Name(), err)
	}

	return json.NewEncoder(w).Encode(artifact{
		Model: regress.ModelType(p.reg.Name()),
		State: state.Bytes(),
	})
}

// Load deserializes a predictor from a reader. The restored predictor
// satisfies the same Predict contract as the one that was saved.
func Load(r io.Reader) (*Predictor, error) {
	var a artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}

	if !a.Model.IsValid() {
		return nil, fmt.Errorf("artifact has unknown model type %q", a.Model)
	}

	reg, err := regress.NewFactory(regress.DefaultConfig()).CreateByType(a.Model)
	if err != nil {
		return nil, err
	}
	if err := reg.Load(bytes.NewReader(a.State)); err != nil {
		return nil, fmt.Errorf("failed to restore %s state: %w", a.Model, err)
	}

	return &Predictor{reg: reg}, nil
}

// Load replaces the predictor's state with the artifact read from r.
// It allows an empty Predictor to be hydrated in place by storage.
func (p *Predictor) Load(r io.Reader) error {
	loaded, err := Load(r)
	if err != nil {
		return err
	}
	p.reg = loaded.reg
	return nil
}

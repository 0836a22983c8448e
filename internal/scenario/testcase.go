package scenario

import (
	"github.com/AbdelazizMoustafa10m/verity/internal/metadata"
	"github.com/AbdelazizMoustafa10m/verity/internal/result"
)

// TestCase is a plain Test implementation.
type TestCase struct {
	id   string
	meta *metadata.Metadata
	res  *result.Result
}

// NewTestCase returns a TestCase. Nil meta or res are replaced with empty
// values.
func NewTestCase(id string, meta *metadata.Metadata, res *result.Result) *TestCase {
	if meta == nil {
		meta = metadata.New(nil)
	}
	if res == nil {
		res = result.New()
	}
	return &TestCase{id: id, meta: meta, res: res}
}

func (t *TestCase) ID() string                   { return t.id }
func (t *TestCase) Metadata() *metadata.Metadata { return t.meta }
func (t *TestCase) Result() *result.Result       { return t.res }

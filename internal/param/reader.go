package param

import (
	"fmt"
	"strconv"

	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/model"
)

// Reader gives typed access to the raw parameters of a page, for pages that
// read their parameters by hand instead of declaring specs.
type Reader struct {
	codec  *fragment.Codec
	pageID string
	params fragment.Params
}

// NewReader creates a Reader over params.
func NewReader(codec *fragment.Codec, pageID string, params fragment.Params) Reader {
	return Reader{codec: codec, pageID: pageID, params: params}
}

// String returns the value at pos.
func (r Reader) String(pos int) (string, bool) {
	return r.codec.Positional(r.params, pos)
}

// NamedString returns the value of the named parameter.
func (r Reader) NamedString(name string) (string, bool) {
	return r.codec.Named(r.params, name)
}

// MandatoryString returns the value at pos or a ParamError when absent.
func (r Reader) MandatoryString(pos int) (string, error) {
	v, ok := r.String(pos)
	if !ok {
		return "", &model.ParamError{
			PageID:   r.pageID,
			Position: pos,
			Reason:   fmt.Sprintf("Required value for parameter at position %d not found.", pos),
		}
	}
	return v, nil
}

// Int64 returns the value at pos as an int64. ok is false when absent.
func (r Reader) Int64(pos int) (v int64, ok bool, err error) {
	raw, ok := r.String(pos)
	if !ok || raw == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, &model.ParamError{
			PageID:   r.pageID,
			Position: pos,
			Value:    raw,
			Reason:   fmt.Sprintf("The value '%s' in URL is expected to be a number (position %d).", raw, pos),
		}
	}
	return v, true, nil
}

// MandatoryInt64 returns the value at pos as an int64, failing when absent.
func (r Reader) MandatoryInt64(pos int) (int64, error) {
	v, ok, err := r.Int64(pos)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &model.ParamError{
			PageID:   r.pageID,
			Position: pos,
			Reason:   fmt.Sprintf("Required value for parameter at position %d not found.", pos),
		}
	}
	return v, nil
}

// NamedInt64 returns the named value as an int64. ok is false when absent.
func (r Reader) NamedInt64(name string) (v int64, ok bool, err error) {
	raw, ok := r.NamedString(name)
	if !ok || raw == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, &model.ParamError{
			PageID:   r.pageID,
			Position: -1,
			Name:     name,
			Value:    raw,
			Reason:   fmt.Sprintf("The value '%s' in URL is expected to be a number (parameter %s).", raw, name),
		}
	}
	return v, true, nil
}

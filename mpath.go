package vgnav

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// isPattern reports whether p has any ":param" segments.
func isPattern(p string) bool {
	return strings.HasPrefix(p, ":") || strings.Contains(p, "/:")
}

// parseMpath will split p into appropriate parts for an mpath.
// After parsing each element of mpath will either be a static
// string or a parameter starting with ":".
func parseMpath(p string) (mpath, error) {
	p = path.Clean("/" + p)
	ret := make(mpath, 0, 2)

	var static strings.Builder
	static.WriteByte('/')

	for i, seg := range strings.Split(p[1:], "/") {
		if i > 0 {
			static.WriteByte('/')
		}
		if strings.HasPrefix(seg, ":") {
			if len(seg) == 1 {
				return nil, fmt.Errorf("empty parameter name in %q: %w", p, ErrInvalidPath)
			}
			ret = append(ret, static.String(), seg)
			static.Reset()
			continue
		}
		static.WriteString(seg)
	}

	// append last part if needed
	if static.Len() > 0 {
		ret = append(ret, static.String())
	}

	return ret, nil
}

// mpath is a matchable-path.  It's basically just a path split by parameter values.
type mpath []string

// paramNames will return the parameter names
// without the preceding colon, i.e. the path "/somewhere/:p1/:p2"
// will return []string{"p1","p2"}
func (mp mpath) paramNames() []string {
	var ret []string
	for _, p := range mp {
		if strings.HasPrefix(p, ":") {
			ret = append(ret, p[1:])
		}
	}
	return ret
}

// String returns the re-assembled path pattern
func (mp mpath) String() string {
	return strings.Join(mp, "")
}

var errMissingParam = errors.New("missing param")

// merge will use any values provided for the appropriate path params
// and return the constructed path.  A missing param value will cause
// errMissingParam to be returned but will still return the path with
// the missing param(s) replaced with "_".  The otherValues will
// be populated with all values not merged into the output path.
func (mp mpath) merge(v url.Values) (outPath string, otherValues url.Values, reterr error) {

	if len(v) > 0 {
		otherValues = make(url.Values, len(v))
		for k, val := range v {
			otherValues[k] = val
		}
	}

	var buf bytes.Buffer
	buf.Grow(64)

	for _, p := range mp {
		if strings.HasPrefix(p, ":") {
			pname := p[1:]
			vlist := v[pname]
			if len(vlist) == 0 || vlist[0] == "" {
				reterr = errMissingParam
				buf.WriteString("_")
				continue
			}
			buf.WriteString(url.PathEscape(vlist[0]))
			otherValues.Del(pname)
			continue
		}
		buf.WriteString(p)
	}

	if len(otherValues) == 0 {
		otherValues = nil
	}

	return buf.String(), otherValues, reterr
}

// match compares our mpath to the whole of p and returns the parameter
// values plus ok true if it matches.  A param never matches an empty segment.
func (mp mpath) match(p string) (paramValues url.Values, ok bool) {

	rest := p

	for _, mpart := range mp {

		if strings.HasPrefix(mpart, ":") {
			i := strings.IndexByte(rest, '/')
			if i < 0 {
				i = len(rest)
			}
			if i == 0 {
				return nil, false
			}
			pval, err := url.PathUnescape(rest[:i])
			if err != nil {
				return nil, false
			}
			if paramValues == nil {
				paramValues = make(url.Values, 2)
			}
			paramValues.Set(mpart[1:], pval)
			rest = rest[i:]
			continue
		}

		if !strings.HasPrefix(rest, mpart) {
			return nil, false
		}
		rest = rest[len(mpart):]
	}

	if rest != "" {
		return nil, false
	}

	return paramValues, true
}

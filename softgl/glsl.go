package softgl

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// This is not a GLSL compiler. It understands enough of the language to
// reproduce the observable outcomes a driver reports for the shaders used in
// this module: version checks, structural syntax errors, global declarations,
// the interface between stages and which uniforms are active.

var supportedVersions = map[string]bool{
	"100": true, "110": true, "120": true, "130": true, "140": true, "150": true,
	"300": true, "310": true, "320": true,
	"330": true, "400": true, "410": true, "420": true, "430": true, "440": true, "450": true, "460": true,
}

var knownTypes = map[string]int{
	"bool": 1, "int": 1, "uint": 1, "float": 1,
	"bvec2": 2, "bvec3": 3, "bvec4": 4,
	"ivec2": 2, "ivec3": 3, "ivec4": 4,
	"uvec2": 2, "uvec3": 3, "uvec4": 4,
	"vec2": 2, "vec3": 3, "vec4": 4,
	"mat2": 4, "mat3": 9, "mat4": 16,
	"sampler2D": 1, "sampler3D": 1, "samplerCube": 1, "sampler2DArray": 1,
	"isampler2D": 1, "usampler2D": 1,
}

var qualifiers = map[string]bool{
	"const": true, "flat": true, "smooth": true, "noperspective": true,
	"centroid": true, "invariant": true, "lowp": true, "mediump": true, "highp": true,
}

var (
	identRe  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	layoutRe = regexp.MustCompile(`^layout\s*\([^)]*\)\s*`)
	arrayRe  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*\[\s*([0-9]+)\s*\]$`)
)

type storage int

const (
	storageUniform storage = iota
	storageIn
	storageOut
	storageVarying
)

type declaration struct {
	storage storage
	typ     string
	name    string
	array   int
	line    int
}

type function struct {
	name string
	body string
}

type translationUnit struct {
	version string
	profile string
	decls   []declaration
	funcs   []function
}

func (u *translationUnit) hasMain() bool {
	for _, f := range u.funcs {
		if f.name == "main" {
			return true
		}
	}
	return false
}

func (u *translationUnit) declared(s storage) []declaration {
	var out []declaration
	for _, d := range u.decls {
		if d.storage == s {
			out = append(out, d)
		}
	}
	return out
}

// referenced reports whether name appears in any function body.
func (u *translationUnit) referenced(name string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	for _, f := range u.funcs {
		if re.MatchString(f.body) {
			return true
		}
	}
	return false
}

type diagnostics []string

func (d *diagnostics) errorf(line int, format string, args ...any) {
	*d = append(*d, fmt.Sprintf("0:%d: error: %s", line, fmt.Sprintf(format, args...)))
}

func (d diagnostics) String() string {
	if len(d) == 0 {
		return ""
	}
	return strings.Join(d, "\n") + "\n"
}

// stripComments blanks out comments while keeping newlines so that line
// numbers in diagnostics still match the source.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); i++ {
		switch {
		case strings.HasPrefix(src[i:], "//"):
			for i < len(src) && src[i] != '\n' {
				b.WriteByte(' ')
				i++
			}
			if i < len(src) {
				b.WriteByte('\n')
			}
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			stop := len(src)
			if end >= 0 {
				stop = i + 2 + end + 2
			}
			for ; i < stop; i++ {
				if src[i] == '\n' {
					b.WriteByte('\n')
				} else {
					b.WriteByte(' ')
				}
			}
			i--
		default:
			b.WriteByte(src[i])
		}
	}
	return b.String()
}

// preprocess handles directives. Only #version is interpreted; every other
// directive line is dropped.
func preprocess(src string, unit *translationUnit, diags *diagnostics) string {
	lines := strings.Split(src, "\n")
	seenCode := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			if trimmed != "" {
				seenCode = true
			}
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(trimmed, "#"))
		if len(fields) > 0 && fields[0] == "version" {
			switch {
			case seenCode || unit.version != "":
				diags.errorf(i+1, "#version must occur on the first line of a shader")
			case len(fields) < 2:
				diags.errorf(i+1, "syntax error, unexpected end of line in #version")
			case !supportedVersions[fields[1]]:
				diags.errorf(i+1, "version '%s' is not supported", fields[1])
			default:
				unit.version = fields[1]
				if len(fields) > 2 {
					unit.profile = fields[2]
				}
			}
		}
		lines[i] = ""
	}
	return strings.Join(lines, "\n")
}

// parseGLSL splits src into global statements and function definitions and
// collects the global declarations.
func parseGLSL(src string) (*translationUnit, diagnostics) {
	unit := &translationUnit{}
	var diags diagnostics

	if strings.TrimSpace(src) == "" {
		diags.errorf(1, "syntax error, unexpected end of file")
		return unit, diags
	}

	src = preprocess(stripComments(src), unit, &diags)

	var (
		stmt       strings.Builder
		stmtLine   = 1
		line       = 1
		braces     int
		parens     int
		header     string
		body       strings.Builder
		skipToSemi bool
	)

	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '\n' {
			line++
		}
		if braces > 0 {
			switch c {
			case '{':
				braces++
			case '}':
				braces--
			}
			if braces == 0 {
				if name, ok := functionName(header); ok {
					unit.funcs = append(unit.funcs, function{name: name, body: body.String()})
				} else {
					// struct or interface block; its instance name follows
					skipToSemi = true
				}
				body.Reset()
				header = ""
				stmt.Reset()
				continue
			}
			body.WriteByte(c)
			continue
		}

		switch c {
		case '(':
			parens++
		case ')':
			parens--
			if parens < 0 {
				diags.errorf(line, "syntax error, unexpected ')'")
				parens = 0
			}
		case '{':
			if parens > 0 {
				diags.errorf(line, "syntax error, unexpected '{'")
			}
			braces = 1
			header = strings.TrimSpace(stmt.String())
			continue
		case '}':
			diags.errorf(line, "syntax error, unexpected '}'")
			continue
		case ';':
			if parens == 0 {
				text := strings.TrimSpace(stmt.String())
				if skipToSemi {
					skipToSemi = false
				} else if text != "" {
					parseStatement(text, stmtLine, unit, &diags)
				}
				stmt.Reset()
				continue
			}
		}
		if stmt.Len() == 0 && (c == ' ' || c == '\t' || c == '\n' || c == '\r') {
			continue
		}
		if stmt.Len() == 0 {
			stmtLine = line
		}
		stmt.WriteByte(c)
	}

	if braces > 0 || parens > 0 {
		diags.errorf(line, "syntax error, unexpected end of file")
	} else if rest := strings.TrimSpace(stmt.String()); rest != "" {
		diags.errorf(line, "syntax error, unexpected end of file, expecting ';'")
	}
	return unit, diags
}

func functionName(header string) (string, bool) {
	open := strings.Index(header, "(")
	if open < 0 {
		return "", false
	}
	fields := strings.Fields(header[:open])
	if len(fields) < 2 {
		return "", false
	}
	return fields[len(fields)-1], true
}

func parseStatement(text string, line int, unit *translationUnit, diags *diagnostics) {
	text = layoutRe.ReplaceAllString(text, "")
	fields := strings.Fields(text)
	if len(fields) == 0 || fields[0] == "precision" {
		return
	}

	st := storage(-1)
	i := 0
	for ; i < len(fields); i++ {
		f := fields[i]
		switch f {
		case "uniform":
			st = storageUniform
			continue
		case "in", "attribute":
			st = storageIn
			continue
		case "out":
			st = storageOut
			continue
		case "varying":
			st = storageVarying
			continue
		}
		if qualifiers[f] {
			continue
		}
		break
	}
	if i >= len(fields) {
		diags.errorf(line, "syntax error, unexpected ';'")
		return
	}
	typ := fields[i]
	if st < 0 {
		// plain globals and constants carry no interface
		return
	}
	if _, ok := knownTypes[typ]; !ok {
		diags.errorf(line, "syntax error, unexpected IDENTIFIER, type '%s' is not defined", typ)
		return
	}
	rest := strings.Join(fields[i+1:], " ")
	if strings.TrimSpace(rest) == "" {
		diags.errorf(line, "syntax error, unexpected ';', expecting IDENTIFIER")
		return
	}
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if eq := strings.Index(part, "="); eq >= 0 {
			part = strings.TrimSpace(part[:eq])
		}
		d := declaration{storage: st, typ: typ, line: line}
		if m := arrayRe.FindStringSubmatch(part); m != nil {
			d.name = m[1]
			d.array, _ = strconv.Atoi(m[2])
		} else if identRe.MatchString(part) {
			d.name = part
		} else {
			diags.errorf(line, "syntax error, unexpected '%s'", part)
			continue
		}
		if strings.HasPrefix(d.name, "gl_") {
			diags.errorf(line, "identifier '%s' uses reserved prefix 'gl_'", d.name)
			continue
		}
		unit.decls = append(unit.decls, d)
	}
}

// resolveVaryings maps legacy varying declarations onto the stage's in/out.
func (u *translationUnit) resolveVaryings(fragment bool) {
	for i := range u.decls {
		if u.decls[i].storage == storageVarying {
			if fragment {
				u.decls[i].storage = storageIn
			} else {
				u.decls[i].storage = storageOut
			}
		}
	}
}

type activeUniform struct {
	name  string
	typ   string
	array int
}

// linkUnits performs the cross-stage checks of a link and returns the active
// uniforms sorted by name.
func linkUnits(vert, frag *translationUnit) ([]activeUniform, []string) {
	var errs []string
	if !vert.hasMain() {
		errs = append(errs, "error: vertex shader lacks `main'")
	}
	if !frag.hasMain() {
		errs = append(errs, "error: fragment shader lacks `main'")
	}

	outputs := make(map[string]declaration)
	for _, d := range vert.declared(storageOut) {
		outputs[d.name] = d
	}
	for _, in := range frag.declared(storageIn) {
		if !frag.referenced(in.name) {
			continue
		}
		out, ok := outputs[in.name]
		if !ok {
			errs = append(errs, fmt.Sprintf("error: fragment shader input `%s' has no matching output in the previous stage", in.name))
			continue
		}
		if out.typ != in.typ {
			errs = append(errs, fmt.Sprintf("error: vertex shader output `%s' declared as type `%s', but fragment shader input declared as type `%s'", in.name, out.typ, in.typ))
		}
	}

	types := make(map[string]string)
	active := make(map[string]activeUniform)
	for _, unit := range []*translationUnit{vert, frag} {
		for _, d := range unit.declared(storageUniform) {
			if prev, ok := types[d.name]; ok && prev != d.typ {
				errs = append(errs, fmt.Sprintf("error: uniform `%s' declared as type `%s' and type `%s'", d.name, prev, d.typ))
				continue
			}
			types[d.name] = d.typ
			if unit.referenced(d.name) {
				active[d.name] = activeUniform{name: d.name, typ: d.typ, array: d.array}
			}
		}
	}

	uniforms := make([]activeUniform, 0, len(active))
	for _, u := range active {
		uniforms = append(uniforms, u)
	}
	sort.Slice(uniforms, func(i, j int) bool { return uniforms[i].name < uniforms[j].name })
	return uniforms, errs
}

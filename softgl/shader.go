package softgl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mobile/gl"
)

// vertexStage computes gl_Position from a single attribute. The attribute
// supplies the first size components and fill supplies the rest.
type vertexStage struct {
	attrib string
	size   int
	fill   [4]float32
}

func (v *vertexStage) position(in []float32) [4]float32 {
	p := v.fill
	copy(p[:v.size], in)
	return p
}

// fragmentStage writes a constant gl_FragColor.
type fragmentStage struct {
	color [4]float32
}

type shader struct {
	ty       gl.Enum
	src      string
	compiled bool
	log      string
	deleted  bool
	attached int

	vertex   *vertexStage
	fragment *fragmentStage
}

type program struct {
	vs, fs  uint32
	linked  bool
	log     string
	deleted bool

	vertex   *vertexStage
	fragment *fragmentStage
}

var (
	reBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLineComment  = regexp.MustCompile(`//[^\n]*`)
	reDirective    = regexp.MustCompile(`(?m)^\s*#[^\n]*`)
	rePrecision    = regexp.MustCompile(`precision\s+(lowp|mediump|highp)\s+float\s*;`)
	reAttribute    = regexp.MustCompile(`attribute\s+(float|vec2|vec3|vec4)\s+([A-Za-z_]\w*)\s*;`)
	reMain         = regexp.MustCompile(`(?s)^void\s+main\s*\(\s*(void)?\s*\)\s*\{(.*)\}$`)
	rePosition     = regexp.MustCompile(`(?s)^gl_Position\s*=\s*(.+)$`)
	reFragColor    = regexp.MustCompile(`^gl_FragColor\s*=\s*vec4\s*\(([^()]*)\)$`)
	reVec4         = regexp.MustCompile(`^vec4\s*\(([^()]*)\)$`)
	reIdent        = regexp.MustCompile(`^[A-Za-z_]\w*$`)
	reFloat        = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

var attribSizes = map[string]int{"float": 1, "vec2": 2, "vec3": 3, "vec4": 4}

// compile accepts the GLSL ES subset needed for pass-through geometry: an
// optional #version and precision statement, attribute declarations and a
// main function holding exactly one assignment. A vertex shader must assign
// gl_Position from an attribute, padded with constants to four components. A
// fragment shader must assign a constant vec4 to gl_FragColor.
func (s *shader) compile() {
	s.compiled, s.log = false, ""
	s.vertex, s.fragment = nil, nil

	src := reBlockComment.ReplaceAllString(s.src, " ")
	src = reLineComment.ReplaceAllString(src, " ")
	src = reDirective.ReplaceAllString(src, " ")
	src = rePrecision.ReplaceAllString(src, " ")

	attribs := map[string]int{}
	for _, m := range reAttribute.FindAllStringSubmatch(src, -1) {
		if s.ty != gl.VERTEX_SHADER {
			s.fail("attribute %q declared outside a vertex shader", m[2])
			return
		}
		attribs[m[2]] = attribSizes[m[1]]
	}
	src = strings.TrimSpace(reAttribute.ReplaceAllString(src, " "))

	m := reMain.FindStringSubmatch(src)
	if m == nil {
		s.fail("expected a single function 'void main()'")
		return
	}
	body := strings.TrimSpace(m[2])
	stmts := splitStatements(body)
	if len(stmts) != 1 {
		s.fail("main must contain exactly one assignment, found %d statements", len(stmts))
		return
	}

	var err error
	switch s.ty {
	case gl.VERTEX_SHADER:
		s.vertex, err = compileVertex(stmts[0], attribs)
	case gl.FRAGMENT_SHADER:
		s.fragment, err = compileFragment(stmts[0])
	default:
		err = fmt.Errorf("unknown shader type 0x%x", uint32(s.ty))
	}
	if err != nil {
		s.fail("%v", err)
		return
	}
	s.compiled = true
}

func (s *shader) fail(format string, args ...interface{}) {
	s.log = "ERROR: 0:0: " + fmt.Sprintf(format, args...)
}

func splitStatements(body string) []string {
	var stmts []string
	for _, st := range strings.Split(body, ";") {
		st = strings.TrimSpace(st)
		if st != "" {
			stmts = append(stmts, st)
		}
	}
	return stmts
}

func compileVertex(stmt string, attribs map[string]int) (*vertexStage, error) {
	m := rePosition.FindStringSubmatch(stmt)
	if m == nil {
		return nil, fmt.Errorf("gl_Position is never written")
	}
	expr := strings.TrimSpace(m[1])

	var args []string
	if v := reVec4.FindStringSubmatch(expr); v != nil {
		args = splitArgs(v[1])
	} else {
		args = []string{expr}
	}
	if len(args) == 0 || !reIdent.MatchString(args[0]) {
		return nil, fmt.Errorf("unsupported gl_Position expression %q", expr)
	}
	name := args[0]
	size, ok := attribs[name]
	if !ok {
		return nil, fmt.Errorf("%q: undeclared identifier", name)
	}
	consts, err := parseFloats(args[1:])
	if err != nil {
		return nil, err
	}
	if size+len(consts) != 4 {
		return nil, fmt.Errorf("gl_Position needs 4 components, expression %q has %d", expr, size+len(consts))
	}
	v := &vertexStage{attrib: name, size: size, fill: [4]float32{0, 0, 0, 1}}
	copy(v.fill[size:], consts)
	return v, nil
}

func compileFragment(stmt string) (*fragmentStage, error) {
	m := reFragColor.FindStringSubmatch(stmt)
	if m == nil {
		return nil, fmt.Errorf("gl_FragColor must be assigned a constant vec4")
	}
	c, err := parseFloats(splitArgs(m[1]))
	if err != nil {
		return nil, err
	}
	if len(c) != 4 {
		return nil, fmt.Errorf("vec4 constructor given %d arguments", len(c))
	}
	f := &fragmentStage{}
	copy(f.color[:], c)
	return f, nil
}

func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseFloats(ss []string) ([]float32, error) {
	fs := make([]float32, len(ss))
	for i, s := range ss {
		// ParseFloat also takes NaN, Inf and hex floats, none of which
		// are GLSL ES literals.
		if !reFloat.MatchString(s) {
			return nil, fmt.Errorf("%q: expected a numeric constant", s)
		}
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("%q: expected a numeric constant", s)
		}
		fs[i] = float32(f)
	}
	return fs, nil
}

func (ctx *Context) CreateShader(ty gl.Enum) gl.Shader {
	if ty != gl.VERTEX_SHADER && ty != gl.FRAGMENT_SHADER {
		ctx.setError(gl.INVALID_ENUM)
		return gl.Shader{}
	}
	id := ctx.id()
	ctx.shaders[id] = &shader{ty: ty}
	return gl.Shader{Value: id}
}

func (ctx *Context) shader(s gl.Shader) *shader {
	sh := ctx.shaders[s.Value]
	if sh == nil {
		ctx.setError(gl.INVALID_VALUE)
	}
	return sh
}

func (ctx *Context) ShaderSource(s gl.Shader, src string) {
	if sh := ctx.shader(s); sh != nil {
		sh.src = src
	}
}

func (ctx *Context) GetShaderSource(s gl.Shader) string {
	if sh := ctx.shader(s); sh != nil {
		return sh.src
	}
	return ""
}

// CompileShader compiles the source of s. Only a narrow GLSL ES subset is
// understood: one attribute feeding gl_Position, optionally padded with
// constants as in vec4(pos, 1.0), and a constant gl_FragColor. Anything else
// leaves COMPILE_STATUS false with an explanation in the info log.
func (ctx *Context) CompileShader(s gl.Shader) {
	if sh := ctx.shader(s); sh != nil {
		sh.compile()
	}
}

func (ctx *Context) GetShaderi(s gl.Shader, pname gl.Enum) int {
	sh := ctx.shader(s)
	if sh == nil {
		return 0
	}
	switch pname {
	case gl.SHADER_TYPE:
		return int(sh.ty)
	case gl.COMPILE_STATUS:
		return glBool(sh.compiled)
	case gl.DELETE_STATUS:
		return glBool(sh.deleted)
	case gl.INFO_LOG_LENGTH:
		if sh.log == "" {
			return 0
		}
		return len(sh.log) + 1
	case gl.SHADER_SOURCE_LENGTH:
		if sh.src == "" {
			return 0
		}
		return len(sh.src) + 1
	}
	ctx.setError(gl.INVALID_ENUM)
	return 0
}

func (ctx *Context) GetShaderInfoLog(s gl.Shader) string {
	if sh := ctx.shader(s); sh != nil {
		return sh.log
	}
	return ""
}

// DeleteShader flags s for deletion. It is removed once no program has it
// attached.
func (ctx *Context) DeleteShader(s gl.Shader) {
	sh := ctx.shaders[s.Value]
	if sh == nil {
		return
	}
	sh.deleted = true
	if sh.attached == 0 {
		delete(ctx.shaders, s.Value)
	}
}

func (ctx *Context) CreateProgram() gl.Program {
	id := ctx.id()
	ctx.programs[id] = &program{}
	return gl.Program{Init: true, Value: id}
}

func (ctx *Context) program(p gl.Program) *program {
	pr := ctx.programs[p.Value]
	if pr == nil {
		ctx.setError(gl.INVALID_VALUE)
	}
	return pr
}

func (ctx *Context) AttachShader(p gl.Program, s gl.Shader) {
	pr, sh := ctx.program(p), ctx.shader(s)
	if pr == nil || sh == nil {
		return
	}
	slot := &pr.vs
	if sh.ty == gl.FRAGMENT_SHADER {
		slot = &pr.fs
	}
	if *slot != 0 {
		ctx.setError(gl.INVALID_OPERATION)
		return
	}
	*slot = s.Value
	sh.attached++
}

func (ctx *Context) DetachShader(p gl.Program, s gl.Shader) {
	pr, sh := ctx.program(p), ctx.shader(s)
	if pr == nil || sh == nil {
		return
	}
	switch s.Value {
	case pr.vs:
		pr.vs = 0
	case pr.fs:
		pr.fs = 0
	default:
		ctx.setError(gl.INVALID_OPERATION)
		return
	}
	ctx.releaseShader(s.Value, sh)
}

func (ctx *Context) releaseShader(id uint32, sh *shader) {
	sh.attached--
	if sh.deleted && sh.attached == 0 {
		delete(ctx.shaders, id)
	}
}

func (ctx *Context) LinkProgram(p gl.Program) {
	pr := ctx.program(p)
	if pr == nil {
		return
	}
	pr.linked, pr.log = false, ""
	pr.vertex, pr.fragment = nil, nil

	vs, fs := ctx.shaders[pr.vs], ctx.shaders[pr.fs]
	switch {
	case vs == nil:
		pr.log = "ERROR: no vertex shader attached"
	case fs == nil:
		pr.log = "ERROR: no fragment shader attached"
	case !vs.compiled:
		pr.log = "ERROR: vertex shader not compiled"
	case !fs.compiled:
		pr.log = "ERROR: fragment shader not compiled"
	default:
		pr.linked = true
		pr.vertex, pr.fragment = vs.vertex, fs.fragment
	}
}

func (ctx *Context) GetProgrami(p gl.Program, pname gl.Enum) int {
	pr := ctx.program(p)
	if pr == nil {
		return 0
	}
	switch pname {
	case gl.LINK_STATUS:
		return glBool(pr.linked)
	case gl.DELETE_STATUS:
		return glBool(pr.deleted)
	case gl.VALIDATE_STATUS:
		return glBool(pr.linked)
	case gl.ATTACHED_SHADERS:
		n := 0
		if pr.vs != 0 {
			n++
		}
		if pr.fs != 0 {
			n++
		}
		return n
	case gl.ACTIVE_ATTRIBUTES:
		if pr.linked {
			return 1
		}
		return 0
	case gl.INFO_LOG_LENGTH:
		if pr.log == "" {
			return 0
		}
		return len(pr.log) + 1
	}
	ctx.setError(gl.INVALID_ENUM)
	return 0
}

func (ctx *Context) GetProgramInfoLog(p gl.Program) string {
	if pr := ctx.program(p); pr != nil {
		return pr.log
	}
	return ""
}

// GetAttribLocation returns location 0 for the attribute feeding gl_Position
// and -1 for any other name, including attributes that are declared but
// unused.
func (ctx *Context) GetAttribLocation(p gl.Program, name string) gl.Attrib {
	pr := ctx.program(p)
	if pr == nil {
		return noAttrib
	}
	if !pr.linked {
		ctx.setError(gl.INVALID_OPERATION)
		return noAttrib
	}
	if pr.vertex.attrib != name {
		return noAttrib
	}
	return gl.Attrib{Value: 0}
}

// noAttrib is the -1 location GL reports for a missing attribute.
var noAttrib = gl.Attrib{Value: ^uint(0)}

func (ctx *Context) UseProgram(p gl.Program) {
	if p.Value != 0 {
		pr := ctx.program(p)
		if pr == nil {
			return
		}
		if !pr.linked {
			ctx.setError(gl.INVALID_OPERATION)
			return
		}
	}
	prev := ctx.current
	ctx.current = p.Value
	ctx.collectProgram(prev)
}

// DeleteProgram flags p for deletion. A program in use stays usable until
// another one replaces it.
func (ctx *Context) DeleteProgram(p gl.Program) {
	pr := ctx.programs[p.Value]
	if pr == nil {
		return
	}
	pr.deleted = true
	ctx.collectProgram(p.Value)
}

func (ctx *Context) collectProgram(id uint32) {
	pr := ctx.programs[id]
	if pr == nil || !pr.deleted || ctx.current == id {
		return
	}
	for _, sid := range []uint32{pr.vs, pr.fs} {
		if sh := ctx.shaders[sid]; sh != nil {
			ctx.releaseShader(sid, sh)
		}
	}
	delete(ctx.programs, id)
}

// IsProgram reports whether p names a program that has not been deleted.
func (ctx *Context) IsProgram(p gl.Program) bool {
	pr := ctx.programs[p.Value]
	return pr != nil && !pr.deleted
}

// IsShader reports whether s names a shader that has not been deleted.
func (ctx *Context) IsShader(s gl.Shader) bool {
	sh := ctx.shaders[s.Value]
	return sh != nil && !sh.deleted
}

func glBool(b bool) int {
	if b {
		return gl.TRUE
	}
	return gl.FALSE
}

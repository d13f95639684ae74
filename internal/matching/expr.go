package matching

import (
	"net/http"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprEnv is the environment an Expr criterion is evaluated against.
// Headers and Query carry first values only, with canonical header keys.
type ExprEnv struct {
	Method  string            `expr:"method"`
	URL     string            `expr:"url"`
	Scheme  string            `expr:"scheme"`
	Host    string            `expr:"host"`
	Path    string            `expr:"path"`
	Headers map[string]string `expr:"headers"`
	Query   map[string]string `expr:"query"`
	Body    string            `expr:"body"`
}

var (
	exprMu    sync.Mutex
	exprCache = map[string]*vm.Program{}
)

// CompileExpr compiles an expression criterion against the request
// environment, caching compiled programs by source. The registry uses this to
// reject malformed expressions at registration time.
func CompileExpr(src string) (*vm.Program, error) {
	exprMu.Lock()
	defer exprMu.Unlock()

	if prog, ok := exprCache[src]; ok {
		return prog, nil
	}

	prog, err := expr.Compile(src, expr.Env(ExprEnv{}), expr.AsBool())
	if err != nil {
		return nil, err
	}
	exprCache[src] = prog
	return prog, nil
}

// MatchExpr evaluates an expression criterion against the request. Compile or
// runtime failures count as no match; compile errors should already have been
// caught at registration.
func MatchExpr(src string, r *http.Request, body []byte) bool {
	prog, err := CompileExpr(src)
	if err != nil {
		return false
	}

	env := ExprEnv{
		Method:  r.Method,
		URL:     r.URL.String(),
		Scheme:  r.URL.Scheme,
		Host:    r.URL.Host,
		Path:    r.URL.Path,
		Headers: make(map[string]string, len(r.Header)),
		Query:   make(map[string]string),
		Body:    string(body),
	}
	for k, v := range r.Header {
		if len(v) > 0 {
			env.Headers[k] = v[0]
		}
	}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			env.Query[k] = v[0]
		}
	}

	out, err := expr.Run(prog, env)
	if err != nil {
		return false
	}
	matched, ok := out.(bool)
	return ok && matched
}

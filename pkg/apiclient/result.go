package apiclient

// Kind tags a Result. The closed set lets consumers switch over three
// cases instead of re-deriving "is this unauthorized?" at each call site.
type Kind int

const (
	// KindOk is a successful response.
	KindOk Kind = iota
	// KindUnauthorized means the credential was rejected and the session
	// has been torn down.
	KindUnauthorized
	// KindErr is any other failure (transport, server error).
	KindErr
)

// Result is the tagged outcome of a boundary request.
type Result struct {
	kind   Kind
	Status int
	Body   []byte
	Err    error
}

// Ok wraps a successful response.
func Ok(status int, body []byte) Result {
	return Result{kind: KindOk, Status: status, Body: body}
}

// Unauthorized marks a rejected credential.
func Unauthorized() Result {
	return Result{kind: KindUnauthorized, Status: 401}
}

// Fail wraps a non-auth failure.
func Fail(err error) Result {
	return Result{kind: KindErr, Err: err}
}

func (r Result) Kind() Kind           { return r.kind }
func (r Result) IsOk() bool           { return r.kind == KindOk }
func (r Result) IsUnauthorized() bool { return r.kind == KindUnauthorized }
func (r Result) IsErr() bool          { return r.kind == KindErr }

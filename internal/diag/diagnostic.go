package diag

import "modelgraph/internal/decl"

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	// Subject is the type the diagnostic is about.
	Subject decl.Identity
	// Chain is the provenance of Subject, root first.
	Chain []decl.Ref
}

func New(sev Severity, code Code, subject decl.Identity, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Subject:  subject,
		Message:  msg,
	}
}

func (d Diagnostic) WithChain(chain []decl.Ref) Diagnostic {
	d.Chain = append([]decl.Ref(nil), chain...)
	return d
}

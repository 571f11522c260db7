// Package errors provides the coded error type shared by the tentcards backend
// and client session.
//
// Every layer returns *Error values so that handlers can translate a failure into
// an HTTP status and the API client can translate a status back into a code:
//
//	err := errors.NotFoundf("no image for %q", name).WithMeta("monster", name)
//	status, body := errors.HTTPResponse(err) // 404, {"error": "no image for \"goblin\""}
//
//	apiErr := errors.FromHTTPStatus(resp.StatusCode, body.Error)
//	if errors.IsUnavailable(apiErr) { ... }
//
// Wrapping keeps the code of the innermost coded error:
//
//	if err := repo.Set(ctx, name, url); err != nil {
//	    return errors.Wrap(err, "failed to record monster image")
//	}
//
// Constructors validate their Config through a ValidationBuilder:
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Cache == nil {
//	    vb.RequiredField("Cache")
//	}
//	return vb.Build()
package errors

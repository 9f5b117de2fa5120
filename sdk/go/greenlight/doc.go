// Package greenlight provides in-process verification of machine-generated
// artifacts for Go agent frameworks. Generated SQL and scripts are
// classified statically and dry-run against disposable state; generated
// text is scored against tone and safety policy. Every call yields a
// Verdict, and Guard enforces rejection before the artifact reaches a
// collaborator.
//
// Usage:
//
//	gl, err := greenlight.New(greenlight.WithAgent("dbfixer"))
//	apply := gl.Guard(executeSQL)
//	result, err := apply(ctx, greenlight.Artifact{
//	    Kind: greenlight.KindSQL,
//	    Body: "UPDATE users SET active = 1 WHERE id = 42;",
//	}, greenlight.Seed{Schema: schemaDDL})
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import github.com/greenlightd/greenlight/sdk/go/greenlight.
package greenlight

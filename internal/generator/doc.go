// Package generator runs the package generation sequence:
//
//	Validating → ManifestWritten → ToolchainChecked → RepoInitialized →
//	DevDepsInstalled → FlavorDepsInstalled → TemplatesWritten → Committed → Done
//
// RepoInitialized, FlavorDepsInstalled and Committed are skipped when they do
// not apply. Steps run strictly in order and nothing is rolled back: a failed
// run leaves whatever earlier steps wrote, and the returned *StepError names
// the failing step by the state it would have reached.
package generator

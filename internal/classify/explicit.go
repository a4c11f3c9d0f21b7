package classify

// ExplicitFlagDetector trusts the compilation flag embedded in the files
// themselves (the iTunes cpil atom or ID3 TCMP frame, captured at import).
// A set flag is authoritative: nothing downstream may contradict it.
type ExplicitFlagDetector struct{}

func (ExplicitFlagDetector) Name() string { return "explicit_flag" }

func (ExplicitFlagDetector) Detect(input Input) *Result {
	if !input.CompilationFlag {
		return nil
	}
	return &Result{
		IsCompilation: true,
		Reason:        ReasonExplicitFlag,
		Confidence:    1.0,
	}
}

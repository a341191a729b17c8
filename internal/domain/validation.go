package domain

// ValidateCandidate applies the intake policy to declared metadata. The type
// check runs first, so a file failing both checks reports UnsupportedType.
func ValidateCandidate(f CandidateFile) (RejectionReason, bool) {
	if !IsAllowedMediaType(f.MediaType) {
		return RejectionUnsupportedType, false
	}
	if f.ByteSize > MaxResumeBytes {
		return RejectionTooLarge, false
	}
	return RejectionNone, true
}

package core

// authorizeOwner allows access only when the caller owns the resource.
// Identifiers are compared as opaque values. Callers must have established
// that the resource exists before invoking the guard.
func authorizeOwner(callerID, ownerID string) error {
	if callerID != ownerID {
		return Forbidden("You are not authorized to access this route")
	}
	return nil
}

package scheduler

// reconcile decides what Create does about a name collision. Deletion only
// happens on explicit overwrite intent; a collision without it mutates
// nothing.
//
//	exists  overwrite   removeFirst  err
//	false   any         false        nil
//	true    true        true         nil
//	true    false       false        ErrAlreadyExists
func reconcile(exists, overwrite bool) (removeFirst bool, err error) {
	if !exists {
		return false, nil
	}
	if overwrite {
		return true, nil
	}
	return false, ErrAlreadyExists
}

package stage

// IsIndexLockConflictForTest exposes the lock-contention classifier to tests.
var IsIndexLockConflictForTest = isIndexLockConflict

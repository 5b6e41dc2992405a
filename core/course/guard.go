package course

// Ownership predicates over domain objects. They never decide transport
// response codes: callers map a missing course to "not found" and a negative
// verdict to "forbidden".

// CanMutate reports whether the acting user may modify the course.
// Only the exact owner passes; the role is accepted for future extension but
// grants no override today, so an admin who does not own the course is refused.
func CanMutate(crs Course, actorID, actorRole string) bool {
	return actorID != "" && crs.CreatedBy == actorID
}

// CanCreateLesson reports whether the acting user may add a lesson under the
// course. Holding the teacher role is not enough; the course must be theirs.
func CanCreateLesson(crs Course, actorID string) bool {
	return actorID != "" && crs.CreatedBy == actorID
}

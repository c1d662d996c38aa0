package services

import (
	"context"

	"edusphere-extension/app/models"
)

// canSeeTask decides whether a raw task record is visible to the requester.
// Unknown roles and malformed records are excluded, never included.
func (s *ExtensionService) canSeeTask(ctx context.Context, raw models.RawRecord, userID string, role models.Role) bool {
	switch role {
	case models.RoleAdmin:
		return true

	case models.RoleLecturer:
		courseID, err := stringField(raw, "courseId")
		if err != nil {
			return false
		}
		return courseID != "" && s.access.CanAccess(ctx, userID, role, courseID)

	case models.RoleStudent:
		courseID, err := stringField(raw, "courseId")
		if err != nil {
			return false
		}
		visibleToStudents, err := boolField(raw, "visibleToStudents")
		if err != nil {
			return false
		}
		published, err := boolField(raw, "published")
		if err != nil {
			return false
		}
		return courseID != "" &&
			visibleToStudents &&
			published &&
			s.access.CanAccess(ctx, userID, role, courseID)
	}

	return false
}

// canSeeMeeting decides whether a raw meeting record is visible to the
// requester. Lecturers see meetings they created or lecture regardless of
// course access; students see meetings they are invited to.
func (s *ExtensionService) canSeeMeeting(ctx context.Context, raw models.RawRecord, userID string, role models.Role) bool {
	switch role {
	case models.RoleAdmin:
		return true

	case models.RoleLecturer:
		courseID, err := stringField(raw, "courseId")
		if err != nil {
			return false
		}
		createdBy, err := stringField(raw, "createdBy")
		if err != nil {
			return false
		}
		lecturerID, err := stringField(raw, "lecturerId")
		if err != nil {
			return false
		}
		return (courseID != "" && s.access.CanAccess(ctx, userID, role, courseID)) ||
			userID == createdBy ||
			userID == lecturerID

	case models.RoleStudent:
		courseID, err := stringField(raw, "courseId")
		if err != nil {
			return false
		}
		participants, err := stringListField(raw, "participants")
		if err != nil {
			return false
		}
		if courseID != "" && s.access.CanAccess(ctx, userID, role, courseID) {
			return true
		}
		for _, p := range participants {
			if p == userID {
				return true
			}
		}
		return false
	}

	return false
}

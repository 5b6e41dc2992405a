package dummydb

import (
	"sync"

	"github.com/teachhub/backend/core/course"
	"github.com/teachhub/backend/core/progress"
	"github.com/teachhub/backend/core/user"
)

type (
	DB struct {
		user       *userTable
		course     *courseTable
		lesson     *lessonTable
		completion *completionTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*course.Course
	}

	lessonTable struct {
		sync.RWMutex
		table map[string]*course.Lesson
	}

	completionKey struct {
		userID   string
		lessonID string
	}

	completionTable struct {
		sync.RWMutex
		table map[completionKey]*progress.Completion
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		course:     &courseTable{table: make(map[string]*course.Course)},
		lesson:     &lessonTable{table: make(map[string]*course.Lesson)},
		completion: &completionTable{table: make(map[completionKey]*progress.Completion)},
	}
	return db, nil
}

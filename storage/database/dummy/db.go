package dummydb

import (
	"sync"

	"github.com/codelasak/fa-akademi-tool-sub000/core/attendance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/finance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
	"github.com/codelasak/fa-akademi-tool-sub000/core/school"
)

type (
	DB struct {
		school     *schoolTable
		policy     *policyTable
		attendance *attendanceTable
		finance    *financeTable
	}

	schoolTable struct {
		sync.RWMutex
		schools  map[string]*school.School
		classes  map[string]*school.Class
		students map[string]*school.Student
	}

	policyTable struct {
		sync.RWMutex
		table map[string]*policy.Policy
	}

	attendanceTable struct {
		sync.RWMutex
		lessons map[string]*attendance.Lesson
		records map[string]*attendance.Record
	}

	financeTable struct {
		sync.RWMutex
		wages    map[string]*finance.WageRecord
		payments map[string]*finance.PaymentRecord
	}
)

func Open() (*DB, error) {
	db := &DB{
		school: &schoolTable{
			schools:  make(map[string]*school.School),
			classes:  make(map[string]*school.Class),
			students: make(map[string]*school.Student),
		},
		policy: &policyTable{table: make(map[string]*policy.Policy)},
		attendance: &attendanceTable{
			lessons: make(map[string]*attendance.Lesson),
			records: make(map[string]*attendance.Record),
		},
		finance: &financeTable{
			wages:    make(map[string]*finance.WageRecord),
			payments: make(map[string]*finance.PaymentRecord),
		},
	}
	return db, nil
}

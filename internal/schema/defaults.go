package schema

// DefaultDeclaration is the built-in university schema. It is used when the
// config file carries no verify.tables section, so the tool works out of the
// box against the stock dataset.
func DefaultDeclaration() *Declaration {
	return &Declaration{
		Tables: []TableSpec{
			{Name: "time_slot", PrimaryKey: []string{"time_slot_id", "day"}},
			{Name: "classroom", PrimaryKey: []string{"building", "room_number"}},
			{Name: "department", PrimaryKey: []string{"dept_name"}},
			{Name: "course", PrimaryKey: []string{"course_id"}},
			{Name: "student", PrimaryKey: []string{"ID"}},
			{Name: "instructor", PrimaryKey: []string{"ID"}},
			{Name: "section", PrimaryKey: []string{"course_id", "sec_id", "semester"}},
			// teaches/takes: the DDL primary key does not include semester/year
			{Name: "teaches", PrimaryKey: []string{"ID", "course_id", "sec_id"}},
			{Name: "prereq", PrimaryKey: []string{"course_id", "prereq_id"}},
			{Name: "takes", PrimaryKey: []string{"ID", "course_id", "sec_id"}},
			{Name: "advisor", PrimaryKey: []string{"i_ID", "s_ID"}},
		},
		Edges: []Edge{
			{ChildTable: "student", ChildColumns: []string{"dept_name"}, ParentTable: "department", ParentColumns: []string{"dept_name"}},
			{ChildTable: "instructor", ChildColumns: []string{"dept_name"}, ParentTable: "department", ParentColumns: []string{"dept_name"}},
			{ChildTable: "section", ChildColumns: []string{"course_id"}, ParentTable: "course", ParentColumns: []string{"course_id"}},
			{ChildTable: "teaches", ChildColumns: []string{"ID"}, ParentTable: "instructor", ParentColumns: []string{"ID"}},
			{ChildTable: "teaches", ChildColumns: []string{"course_id", "sec_id"}, ParentTable: "section", ParentColumns: []string{"course_id", "sec_id"}},
			{ChildTable: "takes", ChildColumns: []string{"ID"}, ParentTable: "student", ParentColumns: []string{"ID"}},
			{ChildTable: "takes", ChildColumns: []string{"course_id", "sec_id"}, ParentTable: "section", ParentColumns: []string{"course_id", "sec_id"}},
			{ChildTable: "advisor", ChildColumns: []string{"i_ID"}, ParentTable: "instructor", ParentColumns: []string{"ID"}},
			{ChildTable: "advisor", ChildColumns: []string{"s_ID"}, ParentTable: "student", ParentColumns: []string{"ID"}},
			{ChildTable: "prereq", ChildColumns: []string{"course_id"}, ParentTable: "course", ParentColumns: []string{"course_id"}},
			{ChildTable: "prereq", ChildColumns: []string{"prereq_id"}, ParentTable: "course", ParentColumns: []string{"course_id"}},
		},
	}
}

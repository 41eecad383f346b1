package model

import "time"

// CrewRole distinguishes the two crewed positions that get assigned to
// flights.  Managers are employees too but are never assigned.
type CrewRole string

const (
	RolePilot     CrewRole = "pilot"
	RoleAttendant CrewRole = "attendant"
)

// CrewMember is a pilot or flight attendant.  Pilots and attendants live
// in separate tables with an identical shape; Role records which table a
// value was loaded from.  IsQualified gates assignment to long flights.
//
// Fields:
//  EmployeeID  – national-id style employee identifier (primary key).
//  Role        – pilot or attendant.
//  FirstName   – given name.
//  LastName    – family name.
//  Phone       – contact phone number, digits only.
//  StartDate   – employment start date.
//  City/Street/HouseNum – home address.
//  IsQualified – certified for long flights.
//  CreatedAt   – timestamp when the record was created.
type CrewMember struct {
	EmployeeID  string    // pilots.employee_id / cabin_crew.employee_id
	Role        CrewRole  // source table marker, not a column
	FirstName   string    // first_name
	LastName    string    // last_name
	Phone       string    // phone
	StartDate   time.Time // start_date
	City        string    // city
	Street      string    // street
	HouseNum    string    // house_num
	IsQualified bool      // is_qualified
	CreatedAt   time.Time // created_at
}

// Manager is a back-office employee with a login.  Managers schedule and
// cancel flights and maintain the fleet; they are never assigned to one.
type Manager struct {
	EmployeeID   string    // managers.employee_id
	FirstName    string    // managers.first_name
	LastName     string    // managers.last_name
	Phone        string    // managers.phone
	StartDate    time.Time // managers.start_date
	City         string    // managers.city
	Street       string    // managers.street
	HouseNum     string    // managers.house_num
	PasswordHash string    // managers.password_hash
	CreatedAt    time.Time // managers.created_at
}

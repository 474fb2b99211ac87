package domain

// Category is a fixed issue classification shown in the report form.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Department is a municipal unit that issues can be assigned to.
type Department struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Categories is the fixed set of report categories.
var Categories = []Category{
	{ID: 1, Name: "Road Maintenance"},
	{ID: 2, Name: "Water Supply"},
	{ID: 3, Name: "Electricity"},
	{ID: 4, Name: "Garbage Collection"},
	{ID: 5, Name: "Street Lighting"},
	{ID: 6, Name: "Drainage"},
	{ID: 7, Name: "Public Transport"},
	{ID: 8, Name: "Public Safety"},
	{ID: 9, Name: "Healthcare"},
	{ID: 10, Name: "Education"},
	{ID: 11, Name: "Parks & Recreation"},
	{ID: 12, Name: "Others"},
}

// Departments is the fixed set of assignable municipal departments.
var Departments = []Department{
	{ID: 1, Name: "Public Works Department"},
	{ID: 2, Name: "Water & Sanitation Department"},
	{ID: 3, Name: "Electricity Board"},
	{ID: 4, Name: "Municipal Corporation"},
	{ID: 5, Name: "Transport Department"},
	{ID: 6, Name: "Police Department"},
	{ID: 7, Name: "Health Department"},
	{ID: 8, Name: "Education Department"},
}

// KnownCategory reports whether id names a defined category.
func KnownCategory(id int) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// KnownDepartment reports whether id names a defined department.
// Assignment requires an explicit department id; there is no matching by name.
func KnownDepartment(id int) bool {
	for _, d := range Departments {
		if d.ID == id {
			return true
		}
	}
	return false
}

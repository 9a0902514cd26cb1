package author

// Author is a catalog author. ID is assigned by the store on insert.
type Author struct {
	ID        int64  `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
}

func (Author) Table() string { return "authors" }

func (Author) Columns() []string { return []string{"first_name", "last_name"} }

func (a *Author) Values() []any { return []any{a.FirstName, a.LastName} }

func (a *Author) Fields() []any { return []any{&a.ID, &a.FirstName, &a.LastName} }

func (a *Author) Identifier() int64 { return a.ID }

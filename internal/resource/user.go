package resource

import "database/sql"

// NewUserRepository returns the repository for the users table.
func NewUserRepository(db *sql.DB) *Repository[User, UserPayload] {
	return newRepository(db,
		"users",
		[]string{"name", "address", "email", "phone"},
		scanUser,
		func(p UserPayload) []any {
			return []any{
				nullableString(p.Name),
				nullableString(p.Address),
				nullableString(p.Email),
				nullableString(p.Phone),
			}
		},
		func(id int64, p UserPayload) *User {
			return &User{ID: id, UserPayload: p}
		},
		false,
	)
}

func scanUser(s rowScanner) (*User, error) {
	var u User
	var name, address, email, phone sql.NullString

	if err := s.Scan(&u.ID, &name, &address, &email, &phone); err != nil {
		return nil, err
	}

	u.Name = fromNullString(name)
	u.Address = fromNullString(address)
	u.Email = fromNullString(email)
	u.Phone = fromNullString(phone)
	return &u, nil
}

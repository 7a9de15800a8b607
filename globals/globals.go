package globals

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

const RoleAdmin = "admin"
const RoleUser = "user"

package contextkeys

// Custom type so the key cannot collide with other context values.
type contextKey string

// DBContextKey is the key under which the *gorm.DB (pool or a test
// transaction) is stored in the gin context by DBMiddleware.
const DBContextKey = contextKey("db")

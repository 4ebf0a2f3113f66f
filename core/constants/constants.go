package constants

const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes

	DefaultRequestTimeout = 30 // seconds

	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
	ScopeTokenAdmin   = "admin"

	ContextTokenData = "token_data"
	ContextAdminData = "admin_data"

	// AdminRoleID is the role claim value required on admin bearer tokens.
	AdminRoleID   = 2
	AdminRoleName = "admin"

	AdminTokenExpiry  = 7 * 24 // hours
	AccessTokenExpiry = 24     // hours

	RedisKeyTokenBlacklist = "token:blacklist:"
	RedisKeyUnreadCount    = "notification:unread:"

	EventCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	EventCodeLength   = 7

	MaxParticipantSearchResults = 1000
)

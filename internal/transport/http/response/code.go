package response

// 对外文案集中管理。凭证类错误刻意用同一句话，
// 避免泄露账号是否存在。
const (
	MsgFieldsRequired    = "All fields are required"
	MsgUserExists        = "User already exists"
	MsgInvalidCreds      = "Invalid credentials"
	MsgAccessDenied      = "Access denied"
	MsgInvalidToken      = "Invalid token"
	MsgNameRequired      = "Name is required"
	MsgInvalidPagination = "Invalid pagination parameters"
	MsgUserNotFound      = "User not found"
	MsgProfileUpdated    = "Profile updated successfully"
	MsgTooManyLogins     = "Too many login attempts. Try again later."
	MsgBodyTooLarge      = "Request body too large"
	MsgInternal          = "Internal server error"
)

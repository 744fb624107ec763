package contextkeys

type contextKey string

const MemberIDKey contextKey = "MemberID"

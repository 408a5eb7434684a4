package transport

// AuthHeader returns the Authorization header value for token, or "" when
// token is empty.
func AuthHeader(token string) string {
	if token == "" {
		return ""
	}
	return "Bearer " + token
}

// AuthArgs returns the command-line arguments that make client send the
// Authorization header. It returns nil when token is empty or the client
// does not take header arguments.
func AuthArgs(client, token string) []string {
	header := AuthHeader(token)
	if header == "" {
		return nil
	}

	switch client {
	case KindCurl:
		return []string{"-H", "Authorization: " + header}
	case KindWget:
		return []string{"--header=Authorization: " + header}
	default:
		return nil
	}
}

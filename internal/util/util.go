package util

// MaskCode obscures a verification or referral code for logging purposes,
// showing only the first and last few characters.
func MaskCode(code string) string {
	if len(code) > 6 {
		return code[:2] + "..." + code[len(code)-2:]
	} else if len(code) > 2 {
		return code[:1] + "..." + code[len(code)-1:]
	}
	return code
}

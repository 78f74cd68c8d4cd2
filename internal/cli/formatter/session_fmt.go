package formatter

import "github.com/alexanderramin/tinytrail/internal/session"

// FormatWhoami describes the signed-in state.
func FormatWhoami(st session.State) string {
	if !st.SignedIn() {
		return Dim("Not signed in. Run: tinytrail login") + "\n"
	}
	if st.Username == "" {
		return StyleOK.Render("● ") + "Signed in\n"
	}
	return StyleOK.Render("● ") + "Signed in as " + Bold(st.Username) + "\n"
}

package invitations

// Guest is the slice of an invitati row the dispatch flow needs.
type Guest struct {
	ID            string
	Nome          string
	Cognome       string
	Telefono      string
	InvitoInviato bool
}

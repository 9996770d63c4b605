package yootles

// unregisteredName is the display name given to accounts used but never declared.
func unregisteredName(id string) string { return "unregistered: " + id }

// resolveAccounts returns the declared accounts followed by a placeholder for
// every id used by a transaction but never declared, in order of first use,
// together with the list of transactions using each placeholder.
func resolveAccounts(declared []Account, txs []Transaction) ([]Account, []UnregisteredAccount) {
	known := make(map[string]bool, len(declared))
	for _, a := range declared {
		known[a.ID] = true
	}
	accounts := declared
	var unregistered []UnregisteredAccount
	index := make(map[string]int) // position in unregistered

	use := func(id, role string, tx Transaction) {
		if known[id] {
			return
		}
		i, seen := index[id]
		if !seen {
			accounts = append(accounts, Account{ID: id, Name: unregisteredName(id)})
			i = len(unregistered)
			index[id] = i
			unregistered = append(unregistered, UnregisteredAccount{ID: id})
		}
		unregistered[i].References = append(unregistered[i].References, Reference{
			Date:        tx.Date,
			Description: tx.Description,
			Role:        role,
		})
	}
	for _, tx := range txs {
		use(tx.From, "from", tx)
		use(tx.To, "to", tx)
	}
	return accounts, unregistered
}

package core

import "strings"

// accountPrefix namespaces the wallets created for mesh users inside a shared Bitcoin Core node.
const accountPrefix = "meshtastic_"

// UserIdentity is a mesh network participant, e.g. a Meshtastic node id such as "!a1b2c3d4".
type UserIdentity string

// AccountName returns the name of the custodial wallet that belongs to the given user.
func AccountName(user UserIdentity) string {
	return accountPrefix + strings.TrimLeft(string(user), "!")
}

// AccountName is a shortcut for AccountName(u).
func (u UserIdentity) AccountName() string {
	return AccountName(u)
}

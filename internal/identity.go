package internal

import (
	"strings"

	"github.com/chaaruze/too-many-chats/internal/hosttree"
)

// Character describes the host's active character. Folders are owned per
// character; the avatar filename is the stable key the host uses to tell
// characters apart, with the display name as fallback.
type Character struct {
	Name   string
	Avatar string
}

// OwnerKey derives the folder-ownership key for a character. Empty when no
// key can be resolved.
func OwnerKey(ch Character) string {
	if ch.Avatar != "" {
		return ch.Avatar
	}
	return ch.Name
}

// ItemIdentity derives the stable identity of one chat row: the designated
// attribute when present, otherwise the trimmed text content. Empty means
// the element is not a usable item.
//
// The identity must survive host re-renders unchanged or folder assignments
// silently break; the attribute is the host's own chat file name, which does.
func ItemIdentity(n *hosttree.Node) string {
	if id := n.Attr(IdentityAttr); id != "" {
		return id
	}
	return strings.TrimSpace(n.Text())
}

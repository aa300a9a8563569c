// Package lflist is a lock-free ordered concurrent map built on a
// singly-linked, key-sorted list of nodes. It offers three traversal
// strategies over the same node shape and reclamation machinery —
// Harris, Harris–Michael, and Harris–Herlihy–Shavit — each wired to the
// same Get/Insert/Remove surface through the Map interface.
//
// Every exported type is safe for concurrent use by multiple
// goroutines without external locking. Callers never see the
// reclamation guard directly; each Map method pins and unpins one for
// the duration of the call.
package lflist

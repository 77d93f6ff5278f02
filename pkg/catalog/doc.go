// Package catalog defines the records shelf persists and the raw listings it
// receives from a source.
//
// A Record is a catalog entry with a stable identity. A RawListing is one
// ephemeral {name, href, price} tuple scraped from a listing page; a Snapshot
// is every RawListing gathered across all configured pages in a single fetch
// pass, in page order.
//
// Records are never deleted because an item stopped appearing: they are
// flagged Missing instead, and the flag clears when the item is observed again.
package catalog

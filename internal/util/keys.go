package util

// AssetKey builds the storage key for one request identity within a
// generation. The "asset:" keyspace is owned by offcache; foreign writes
// under it are treated as corruption and self-healed on read.
func AssetKey(label, requestKey string) string {
	return "asset:" + label + ":" + requestKey
}

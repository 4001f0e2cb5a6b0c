package cache

import "strconv"

// KeyPrefix namespaces every key written by this service.
const KeyPrefix = "tennis"

// RecordKey addresses one stored record, e.g. "tennis:analysis:record:12".
func RecordKey(kind string, id int64) string {
	return KeyPrefix + ":" + kind + ":record:" + strconv.FormatInt(id, 10)
}

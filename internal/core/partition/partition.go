package partition

import "hash/fnv"

// Count is the fixed number of logical partitions. Changing it reshuffles
// every company onto a different lane.
const Count = 256

// For returns the partition of a CIK. The same CIK always maps to the same
// partition.
func For(cik string) int {
	h := fnv.New32a()
	h.Write([]byte(cik))
	return int(h.Sum32() % Count)
}

// Lane maps a CIK onto one of n worker lanes. n <= 1 always yields lane 0.
func Lane(cik string, n int) int {
	if n <= 1 {
		return 0
	}
	return For(cik) % n
}

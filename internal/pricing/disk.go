package pricing

import (
	"regexp"
	"strconv"
)

// Disk categories quoted alongside the instance.
const (
	DiskCloudESSD       = "cloud_essd"
	DiskCloudEfficiency = "cloud_efficiency"
)

// familyPattern pulls the series letter and generation number out of an
// instance type such as ecs.g8y.large or ecs.c7.xlarge.
var familyPattern = regexp.MustCompile(`^ecs\.([a-z]+?)(\d+)`)

// DiskCategoryFor picks the disk category the instance generation supports.
// Generation 7 and newer general/compute/memory series require ESSD; older
// or unrecognized types are quoted with efficiency disks, which every
// generation accepts. The mapping is total: every input gets a category.
func DiskCategoryFor(instanceType string) string {
	m := familyPattern.FindStringSubmatch(instanceType)
	if m == nil {
		return DiskCloudEfficiency
	}
	series, genStr := m[1], m[2]
	gen, err := strconv.Atoi(genStr)
	if err != nil {
		return DiskCloudEfficiency
	}
	switch series[0] {
	case 'g', 'c', 'r':
		if gen >= 7 {
			return DiskCloudESSD
		}
	}
	return DiskCloudEfficiency
}

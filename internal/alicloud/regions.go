package alicloud

// Region is one purchasable region.
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Regions lists the regions quotations can target, in display order.
var Regions = []Region{
	{ID: "cn-qingdao", Name: "华北1（青岛）"},
	{ID: "cn-beijing", Name: "华北2（北京）"},
	{ID: "cn-zhangjiakou", Name: "华北3（张家口）"},
	{ID: "cn-huhehaote", Name: "华北5（呼和浩特）"},
	{ID: "cn-hangzhou", Name: "华东1（杭州）"},
	{ID: "cn-shanghai", Name: "华东2（上海）"},
	{ID: "cn-shenzhen", Name: "华南1（深圳）"},
	{ID: "cn-guangzhou", Name: "华南3（广州）"},
	{ID: "cn-chengdu", Name: "西南1（成都）"},
	{ID: "cn-hongkong", Name: "中国香港"},
	{ID: "ap-southeast-1", Name: "新加坡"},
	{ID: "ap-northeast-1", Name: "日本（东京）"},
	{ID: "us-west-1", Name: "美国（硅谷）"},
	{ID: "us-east-1", Name: "美国（弗吉尼亚）"},
	{ID: "eu-central-1", Name: "德国（法兰克福）"},
}

// ValidRegion reports whether id names a known region.
func ValidRegion(id string) bool {
	for _, r := range Regions {
		if r.ID == id {
			return true
		}
	}
	return false
}

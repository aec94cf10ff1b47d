package conf

// Bootstrap 启动配置，由kratos config从文件加载
type Bootstrap struct {
	Run  *Run  `json:"run"`
	Data *Data `json:"data"`
}

// Run 一次测算任务的参数
type Run struct {
	GameConfig      string `json:"game_config"` // 游戏数值配置文件路径
	Spins           int64  `json:"spins"`
	BatchSize       int64  `json:"batch_size"`
	Seed            uint64 `json:"seed"`
	Workers         int    `json:"workers"`
	Persist         bool   `json:"persist"`          // 落地逐次旋转记录
	MaxCombinations int64  `json:"max_combinations"` // 精确枚举的组合数上限，0取默认
}

// Data 外部资源配置，任意一项留空则对应组件不启用
type Data struct {
	Database *Database `json:"database"`
	Redis    *Redis    `json:"redis"`
	Rabbitmq *Rabbitmq `json:"rabbitmq"`
}

type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

type Redis struct {
	Addr string `json:"addr"`
}

type Rabbitmq struct {
	Host       string `json:"host"`
	Port       string `json:"port"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Vhost      string `json:"vhost"`
	Exchange   string `json:"exchange"`
	RoutingKey string `json:"routing_key"`
}

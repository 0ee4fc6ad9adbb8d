package catalog

// Placeholders 后端无法连接时显示的固定目录
func Placeholders() []Product {
	return []Product{
		{ID: "placeholder-1", Code: "PH-001", Name: "Super Alimento Andino", Description: "Mezcla de granos andinos", Price: 25.90, Stock: 10, Category: "superalimentos", Status: "activo"},
		{ID: "placeholder-2", Code: "PH-002", Name: "Quinua Orgánica", Description: "Quinua blanca orgánica 500 g", Price: 12.50, Stock: 10, Category: "granos", Status: "activo"},
		{ID: "placeholder-3", Code: "PH-003", Name: "Maca en Polvo", Description: "Maca negra en polvo 250 g", Price: 18.00, Stock: 10, Category: "superalimentos", Status: "activo"},
		{ID: "placeholder-4", Code: "PH-004", Name: "Kiwicha Pop", Description: "Kiwicha reventada 200 g", Price: 8.40, Stock: 10, Category: "granos", Status: "activo"},
		{ID: "placeholder-5", Code: "PH-005", Name: "Cacao Nativo", Description: "Nibs de cacao nativo 150 g", Price: 15.75, Stock: 10, Category: "snacks", Status: "activo"},
		{ID: "placeholder-6", Code: "PH-006", Name: "Aguaymanto Deshidratado", Description: "Aguaymanto deshidratado 100 g", Price: 9.90, Stock: 10, Category: "snacks", Status: "activo"},
	}
}

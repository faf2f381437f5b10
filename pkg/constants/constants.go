// pkg/constants/constants.go
package constants

//============== UPLOAD CONTEXTS ==============

// UploadContext определяет тип для контекстов загрузки файлов.
type UploadContext string

const (
	// UploadContextEquipmentAttachment - документы и фото, прикрепленные к оборудованию.
	UploadContextEquipmentAttachment UploadContext = "equipment_attachment"
	// UploadContextInventoryImport - XLSX-файл для массового импорта.
	UploadContextInventoryImport UploadContext = "inventory_import"
)

// String возвращает строковое представление контекста.
func (uc UploadContext) String() string {
	return string(uc)
}

//============== CACHE KEYS ==============

const (
	// Агрегаты дашборда: количество, стоимость, распределение по статусам.
	CacheKeyDashboardStats = "dashboard:stats"
)

//============== DEFAULTS ==============

const (
	// Сколько записей журнала отдавать, если лимит не задан.
	DefaultRecentActivityLimit = 10
)

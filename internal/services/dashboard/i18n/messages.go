package i18n

var english = map[string]string{
	"app.title":                   "AFS Dashboard",
	"app.signed_in":               "Signed in as %s",
	"nav.companies":               "Companies",
	"nav.search":                  "Search",
	"nav.organizations":           "Organizations",
	"nav.contractors":             "Contractors",
	"nav.clients":                 "Clients",
	"nav.back":                    "Back to companies",
	"nav.activity":                "Activity",
	"state.loading":               "Loading…",
	"state.no_data":               "No data",
	"state.error":                 "Something went wrong",
	"state.in_flight":             "Saving changes…",
	"companies.title":             "Organizations",
	"companies.empty":             "No companies to show",
	"contractors.empty":           "No contractors yet",
	"clients.empty":               "No clients yet",
	"company.details":             "Company details",
	"company.contacts":            "Contacts",
	"company.photos":              "Photos",
	"company.name":                "Name:",
	"company.status":              "Status:",
	"company.agreement":           "Agreement:",
	"company.agreement_number":    "Agreement number:",
	"company.date":                "Date:",
	"company.business_entity":     "Business entity:",
	"company.type":                "Company type:",
	"company.delete_title":        "Remove the organization?",
	"company.delete_prompt":       "Are you sure you want to remove this Organization?",
	"company.photos_empty":        "No photos yet",
	"contact.person":              "Responsible person:",
	"contact.phone":               "Phone number:",
	"contact.email":               "E-mail:",
	"action.edit":                 "Edit",
	"action.save":                 "Save changes",
	"action.cancel":               "Cancel",
	"action.delete":               "Delete",
	"action.remove":               "Yes, remove",
	"action.rename":               "Rename",
	"action.add_photo":            "Add",
	"action.search":               "Search",
	"errors.agreement":            "Enter format: digits/digits",
	"errors.date":                 "Enter a date as dd.mm.yyyy between 1800 and 2099",
	"errors.business_entity":      "Choose a business entity",
	"errors.type":                 "Choose known company types",
	"errors.person":               "Enter first and last name",
	"errors.phone":                "Enter 10 to 20 digits",
	"errors.email":                "Enter an address like test@mail.com",
	"errors.name":                 "Enter a name",
	"errors.photo":                "Choose an image to upload",
	"search.placeholder":          `status = "active" AND type:"funeral_home"`,
	"search.invalid":              "Invalid filter: %s",
	"search.results":              "%d of %d companies match",
	"activity.title":              "Activity",
	"activity.empty":              "No changes recorded",
	"type.funeral_home":           "Funeral Home",
	"type.logistics_services":     "Logistics services",
	"type.burial_care_contractor": "Burial care Contractor",
}

var russian = map[string]string{
	"app.title":                   "Панель AFS",
	"app.signed_in":               "Вы вошли как %s",
	"nav.companies":               "Компании",
	"nav.search":                  "Поиск",
	"nav.organizations":           "Организации",
	"nav.contractors":             "Подрядчики",
	"nav.clients":                 "Клиенты",
	"nav.back":                    "К списку компаний",
	"nav.activity":                "История",
	"state.loading":               "Загрузка…",
	"state.no_data":               "Нет данных",
	"state.error":                 "Что-то пошло не так",
	"state.in_flight":             "Сохраняем изменения…",
	"companies.title":             "Организации",
	"companies.empty":             "Нет компаний",
	"contractors.empty":           "Подрядчиков пока нет",
	"clients.empty":               "Клиентов пока нет",
	"company.details":             "Сведения о компании",
	"company.contacts":            "Контакты",
	"company.photos":              "Фотографии",
	"company.name":                "Название:",
	"company.status":              "Статус:",
	"company.agreement":           "Договор:",
	"company.agreement_number":    "Номер договора:",
	"company.date":                "Дата:",
	"company.business_entity":     "Форма собственности:",
	"company.type":                "Тип компании:",
	"company.delete_title":        "Удалить организацию?",
	"company.delete_prompt":       "Вы уверены, что хотите удалить эту организацию?",
	"company.photos_empty":        "Фотографий пока нет",
	"contact.person":              "Ответственное лицо:",
	"contact.phone":               "Телефон:",
	"contact.email":               "Эл. почта:",
	"action.edit":                 "Изменить",
	"action.save":                 "Сохранить",
	"action.cancel":               "Отмена",
	"action.delete":               "Удалить",
	"action.remove":               "Да, удалить",
	"action.rename":               "Переименовать",
	"action.add_photo":            "Добавить",
	"action.search":               "Найти",
	"errors.agreement":            "Формат: цифры/цифры",
	"errors.date":                 "Введите дату дд.мм.гггг с 1800 по 2099 год",
	"errors.business_entity":      "Выберите форму собственности",
	"errors.type":                 "Выберите тип компании из списка",
	"errors.person":               "Введите имя и фамилию",
	"errors.phone":                "Введите от 10 до 20 цифр",
	"errors.email":                "Введите адрес вида test@mail.com",
	"errors.name":                 "Введите название",
	"errors.photo":                "Выберите изображение",
	"search.placeholder":          `status = "active" AND type:"funeral_home"`,
	"search.invalid":              "Некорректный фильтр: %s",
	"search.results":              "Найдено %d из %d",
	"activity.title":              "История изменений",
	"activity.empty":              "Изменений нет",
	"type.funeral_home":           "Похоронный дом",
	"type.logistics_services":     "Логистические услуги",
	"type.burial_care_contractor": "Подрядчик по уходу",
}

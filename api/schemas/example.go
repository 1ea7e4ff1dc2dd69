package schemas

// ExampleModel returns a fully populated report used to prefill the form and
// as a known-good fixture. The content mirrors a real mobile-app test cycle
// so the rendered documents look plausible out of the box.
func ExampleModel() ReportModel {
	m := ReportModel{
		Header: Header{
			ReportTitle: "Отчёт о тестировании мобильного приложения Лемана ПРО",
			Project:     "Лемана ПРО",
			AppType:     "Мобильное",
			Version:     "241006.001",
			TestPeriod:  "29–30 ноября 2025 г.",
			ReportDate:  "30 ноября 2025 г.",
			Engineer:    "Черкасов Игорь",
		},
		Summary: Summary{
			ReleaseStatus:  "НЕ РЕКОМЕНДОВАН К ВЫПУСКУ",
			Critical:       2,
			Major:          1,
			Total:          72,
			Pass:           69,
			Fail:           3,
			Risk:           "Уязвимости безопасности позволяют нарушителю получить доступ к данным пользователей и вызвать отказ в обслуживании.",
			Recommendation: "Релиз возможен только после устранения всех S1/S2 дефектов и повторного тестирования.",
		},
		Context: Context{
			DeviceBrowser: "Xiaomi 12",
			OSPlatform:    "Android 15",
			Build:         "lemanna-pro_241006.001.apk",
			EnvURL:        "https://test.lemanna.pro",
			Tools:         "Postman (API), Burp Suite (безопасность), Jira (баг-трекинг)",
			Methodology:   "Ручное функциональное тестирование + проверка безопасности",
		},
		Modules: []Module{
			{
				Title: "Главный экран и навигация",
				Cases: []TestCaseRow{
					{ID: "MAIN-01", Scenario: "Отображение карточек товаров", Status: StatusPass, Comment: "—"},
					{ID: "MAIN-02", Scenario: "Фильтрация по категориям", Status: StatusPass, Comment: "—"},
					{ID: "NAV-01", Scenario: "Переход между разделами", Status: StatusPass, Comment: "—"},
					{ID: "NAV-02", Scenario: "Поиск товара с опечаткой", Status: StatusFail, Comment: "BUG-SEARCH-001. Не находятся товары при ошибке в 1 символе (например, «мыло» → «мылоо»)"},
				},
			},
			{
				Title: "Аутентификация и безопасность",
				Cases: []TestCaseRow{
					{ID: "AUTH-01", Scenario: "Вход по логину/паролю", Status: StatusPass, Comment: "—"},
					{ID: "SEC-01", Scenario: "SQL-инъекция в поле поиска", Status: StatusFail, Comment: "BUG-SEC-001. При вводе `' OR '1'='1` — белый экран, частичный краш"},
					{ID: "SEC-02", Scenario: "XSS-атака через поле поиска", Status: StatusFail, Comment: "BUG-SEC-002. При вводе `<script>alert(1)</script>` — выполнение скрипта"},
				},
			},
			{
				Title: "Каталог и корзина",
				Cases: []TestCaseRow{
					{ID: "CATALOG-01", Scenario: "Отображение списка товаров", Status: StatusPass, Comment: "—"},
					{ID: "CART-01", Scenario: "Добавление в корзину", Status: StatusPass, Comment: "—"},
					{ID: "CART-02", Scenario: "Оформление заказа", Status: StatusPass, Comment: "—"},
				},
			},
			{
				Title: "Дополнительные сценарии",
				Cases: []TestCaseRow{
					{ID: "OFFLINE-01", Scenario: "Работа без интернета", Status: StatusPass, Comment: "Кэширование работает корректно"},
					{ID: "SPECIAL-01", Scenario: "Поиск со спецсимволами (@, #, $)", Status: StatusPass, Comment: "—"},
				},
			},
		},
		Defects: []DefectRow{
			{ID: "BUG-SEARCH-001", Module: "Поиск", Title: "Не работает fuzzy search (поиск с опечатками)", Severity: SeverityMajor, Status: DefectNew},
			{ID: "BUG-SEC-001", Module: "Безопасность", Title: "Уязвимость к SQL-инъекциям в поле поиска", Severity: SeverityCritical, Status: DefectNew},
			{ID: "BUG-SEC-002", Module: "Безопасность", Title: "Уязвимость к XSS-атакам в поле поиска", Severity: SeverityCritical, Status: DefectNew},
		},
		Narrative: Narrative{
			Consequences: "- S1 дефекты позволяют злоумышленнику получить данные других пользователей или вывести приложение из строя.\n" +
				"- S2 дефект снижает юзабилити: пользователи не найдут товар при опечатке.",
			Limitations: "1. Не тестировалась оплата через Apple Pay (устройство Android).\n" +
				"2. Не проверена синхронизация с 1С (нет доступа к интеграционному стенду).\n" +
				"3. Не проведено нагрузочное тестирование (ограничение по времени).",
			Conclusion: "Сборка 241006.001 содержит критические уязвимости безопасности, делающие её непригодной для выпуска в production. " +
				"Наличие S1 дефектов нарушает базовые принципы защиты данных пользователей.",
			Recommendations: "Немедленно исправить уязвимости BUG-SEC-001 и BUG-SEC-002.\n" +
				"Реализовать fuzzy search для повышения юзабилити (BUG-SEARCH-001).\n" +
				"Провести повторное тестирование после фиксов с фокусом на инъекции и поиск.\n" +
				"Настроить автоматизированную проверку безопасности (например, OWASP ZAP) в CI/CD.",
		},
		Signature: Signature{
			Role:     "QA-инженер",
			FullName: "Черкасов Игорь",
			Date:     "30.11.2025",
		},
	}
	m.Normalize()
	return m
}
